package intake

// State is a step of the intake pipeline.
type State string

const (
	StateValidating       State = "validating"
	StateResolvingCatalog State = "resolving_catalog"
	StatePricing          State = "pricing"
	StateQuotingDelivery  State = "quoting_delivery"
	StateSequencing       State = "sequencing"
	StateClassifying      State = "classifying"
	StateWriting          State = "writing"
	StateDone             State = "done"
	StateRejected         State = "rejected"
)

// Observer is notified on every state transition.
type Observer func(State)
