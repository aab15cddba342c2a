package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/methods/workspace"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/tliron/glsp"
	"go.uber.org/zap"
)

// recovered logs a handler panic locally and to the client.
func recovered(ctx *glsp.Context, methodName string, r any) error {
	log.Logger().Error("PANIC in handler",
		zap.String("method", methodName),
		zap.Any("panic", r),
		zap.String("stack", string(debug.Stack())))
	workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
	return fmt.Errorf("internal error in %s", methodName)
}

// finish logs warnings and wraps err with the method name.
func finish(req *types.RequestContext, methodName string, err error) error {
	if err != nil {
		workspace.LogError(req.GLSP, "%s: %v", methodName, err)
		return fmt.Errorf("%s: %w", methodName, err)
	}
	for _, w := range req.Warnings() {
		log.Warn("%s: %v", methodName, w)
	}
	log.Debug("%s completed", methodName)
	return nil
}

// method wraps a request handler with panic recovery, logging and error
// wrapping. It returns the function type protocol.Handler fields expect.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				var zero R
				result, err = zero, recovered(ctx, methodName, r)
			}
		}()
		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		result, err = handler(req, params)
		if err = finish(req, methodName, err); err != nil {
			var zero R
			return zero, err
		}
		return result, nil
	}
}

// notify wraps a notification handler.
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
			}
		}()
		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		return finish(req, methodName, handler(req, params))
	}
}

// noParam wraps a handler without params, like shutdown.
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
			}
		}()
		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		return finish(req, methodName, handler(req))
	}
}
