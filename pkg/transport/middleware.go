package transport

// Middleware decorates the chat completion path: recovery, request IDs,
// logging. It sees the parsed request, never the raw HTTP exchange.
type Middleware func(CompletionCreator) CompletionCreator

// Chain folds middlewares into one. Chain(a, b)(h) runs a, then b, then h;
// nil entries are skipped so optional layers can be passed unconditionally.
func Chain(middlewares ...Middleware) Middleware {
	return func(next CompletionCreator) CompletionCreator {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if mw := middlewares[i]; mw != nil {
				next = mw(next)
			}
		}
		return next
	}
}
