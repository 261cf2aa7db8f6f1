package wrapper

// Audit event types appended to the wrapper's event stream.
const (
	EventDependencyChanged = "DependencyChanged"
	EventDeposited         = "Deposited"
	EventWithdrawn         = "Withdrawn"
	EventTransferred       = "Transferred"
	EventRecovered         = "Recovered"
	EventWardGranted       = "WardGranted"
	EventWardRevoked       = "WardRevoked"
)

// DependencyChangedEvent records a registry slot replacement.
type DependencyChangedEvent struct {
	Slot   string `json:"slot"`
	Handle string `json:"handle"`
}

// TransferEvent records a deposit, withdrawal, or transfer.
type TransferEvent struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount string `json:"amount"`
}

// RecoveredEvent records a forced unwind of an account's wrapped balance.
type RecoveredEvent struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// WardEvent records an admin-set change.
type WardEvent struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
}
