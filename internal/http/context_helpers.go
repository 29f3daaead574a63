package httpx

import (
	"context"

	"github.com/luminara/journey-api/internal/service"
)

// workspaceKey is an unexported context key type to avoid collisions across packages.
type workspaceKey struct{}

// SetWorkspaceInContext returns a child context that carries the given workspace.
// If ws is nil, the original ctx is returned unchanged.
func SetWorkspaceInContext(ctx context.Context, ws *service.Workspace) context.Context {
	if ws == nil {
		return ctx
	}
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// GetWorkspaceFromContext returns the workspace bound to the request, if any.
func GetWorkspaceFromContext(ctx context.Context) (*service.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*service.Workspace)
	return ws, ok && ws != nil
}
