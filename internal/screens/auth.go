package screens

import "context"

// Login prompts for credentials. Public.
type Login struct{}

func (Login) Title() string { return "Login" }

func (Login) Render(ctx context.Context) (string, error) {
	return "Sign in to your dashboard.\n\n  birddeck login <username>\n", nil
}

// SignUp prompts for registration details. Public.
type SignUp struct{}

func (SignUp) Title() string { return "Sign Up" }

func (SignUp) Render(ctx context.Context) (string, error) {
	return "Create a dashboard user.\n\n  birddeck signup <username> --email <addr>\n", nil
}
