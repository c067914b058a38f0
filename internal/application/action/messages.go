package action

// Kind is the data operation an action performs.
type Kind string

const (
	KindCreate           Kind = "create"
	KindFindOne          Kind = "findOne"
	KindFindMany         Kind = "findMany"
	KindFindOneAndUpdate Kind = "findOneAndUpdate"
	// KindExternal is a call to a collaborator outside the database.
	KindExternal Kind = "external"
)

// Mutates reports whether the kind writes to the store.
func (k Kind) Mutates() bool {
	return k == KindCreate || k == KindFindOneAndUpdate
}

var defaultMessages = map[Kind]string{
	KindCreate:           "Failed to create record. Please try again.",
	KindFindOne:          "Failed to fetch record.",
	KindFindMany:         "Failed to fetch records.",
	KindFindOneAndUpdate: "Failed to update record. Please try again.",
	KindExternal:         "Request failed. Please try again.",
}

// MessageFor is the only place an internal error becomes caller-facing text.
// Every failure of an operation maps to the operation's fixed message; the
// error itself is only used to decide that there is a failure at all.
func MessageFor(op Operation, err error) string {
	if err == nil {
		return ""
	}
	if op.Message != "" {
		return op.Message
	}
	if msg, ok := defaultMessages[op.Kind]; ok {
		return msg
	}
	return "Something went wrong. Please try again."
}
