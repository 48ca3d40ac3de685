package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/willfong/bankfront/internal/guard"
)

// annotationSurface marks what a command needs before it may run
const annotationSurface = "bankfront/surface"

// Surface kinds
const (
	// surfaceNone commands run without configuration or a session (help, version)
	surfaceNone = ""
	// surfacePublic commands need a session but no principal (login, logout)
	surfacePublic = "public"
	// surfaceCustomer commands need any signed-in principal
	surfaceCustomer = "customer"
	// surfaceAdmin commands need the administrator role
	surfaceAdmin = "admin"
)

func surface(kind string) map[string]string {
	return map[string]string{annotationSurface: kind}
}

// surfaceOf returns the closest surface annotation on cmd or its parents
func surfaceOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if kind, ok := c.Annotations[annotationSurface]; ok {
			return kind
		}
	}
	return surfaceNone
}

// loginCommand maps a login route to the command that serves it
func loginCommand(route string) string {
	switch route {
	case guard.RouteAdminLogin:
		return "bankfront login --admin"
	case guard.RouteLogin:
		return "bankfront login"
	case guard.RouteAdminDashboard:
		return "bankfront admin cards"
	default:
		return "bankfront cards list"
	}
}

// RedirectError is returned when the guard does not let a command run
type RedirectError struct {
	Decision guard.Decision
}

func (e *RedirectError) Error() string {
	switch e.Decision.State {
	case guard.StateRedirectingInsufficientRole:
		return fmt.Sprintf("该功能需要管理员权限，请使用 %s", loginCommand(e.Decision.RedirectTo))
	default:
		return fmt.Sprintf("请先登录：%s", loginCommand(e.Decision.RedirectTo))
	}
}

// enter runs the guard for cmd against the restored session
func (a *App) enter(cmd *cobra.Command) error {
	kind := surfaceOf(cmd)
	if kind != surfaceCustomer && kind != surfaceAdmin {
		return nil
	}

	d := a.Nav.Navigate(guard.Surface{
		Name:                  cmd.CommandPath(),
		Path:                  "/" + strings.ReplaceAll(cmd.CommandPath(), " ", "/"),
		RequiresAdministrator: kind == surfaceAdmin,
	})
	if !d.Allowed() {
		return &RedirectError{Decision: d}
	}
	return nil
}
