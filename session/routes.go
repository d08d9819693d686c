package session

// Client-side route constants shared by the store's post-login navigation
// and the route guard.
const (
	RootRoute           = "/"
	LoginRoute          = "/login"
	DashboardRoute      = "/dashboard"
	ForgotPasswordRoute = "/forgot-password"
	ResetPasswordRoute  = "/reset-password"
)

// Navigator performs client-side navigation. Replace swaps the current
// history entry rather than pushing a new one, so redirected locations do
// not pile up in history.
type Navigator interface {
	Replace(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Replace(route string) { f(route) }

// Notifier surfaces user-visible outcome messages (toasts in the web UI).
type Notifier interface {
	Success(message string)
	Error(message string)
}
