package foal

// HandlerFunc is the terminal handler for a route, already bound to its
// controller instance. Returning a nil Response with a nil error is treated
// as an empty 204 by the dispatcher.
type HandlerFunc func(ctx *Context) (Response, error)

// Hook is a unit of pre-handler logic bound to a controller instance.
//
// Hooks run in order before the route handler. A hook short-circuits the
// chain by returning a non-nil Response (the handler never runs) or an
// error (mapped through the error transformer).
//
//	func requireAuth(ctx *foal.Context) (foal.Response, error) {
//	    if ctx.Request().Header.Get("Authorization") == "" {
//	        return foal.Unauthorized(nil), nil
//	    }
//	    return nil, nil
//	}
//
// A controller's effective hook sequence on a route is its ancestors' hooks
// (outermost controller first) followed by its own, followed by the route's.
type Hook func(ctx *Context) (Response, error)

// HookBinder produces a Hook bound to a resolved controller instance.
// Plain hooks that do not touch the instance use constHook.
type HookBinder func(instance any) Hook

func constHook(h Hook) HookBinder {
	return func(any) Hook { return h }
}

// bindHooks resolves binders against a controller instance, preserving order.
func bindHooks(instance any, binders []HookBinder) []Hook {
	if len(binders) == 0 {
		return nil
	}
	hooks := make([]Hook, len(binders))
	for i, b := range binders {
		hooks[i] = b(instance)
	}
	return hooks
}

// runHooks executes hooks sequentially. The first non-nil Response or error
// stops the chain.
func runHooks(ctx *Context, hooks []Hook) (Response, error) {
	for _, h := range hooks {
		res, err := h(ctx)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}
