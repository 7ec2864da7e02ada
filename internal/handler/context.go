package handler

type ContextKey string

var (
	SubCtxKey        ContextKey = "sub"
	TermCtx          ContextKey = "term"
	AllocationRunCtx ContextKey = "allocationRun"
)
