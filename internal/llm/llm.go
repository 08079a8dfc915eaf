package llm

import "context"

// Client is the minimal surface the pipeline needs from a text-completion
// provider. The provider returns free text; any structure is imposed by the
// prompt and recovered by the caller.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Middleware decorates a Client.
type Middleware func(Client) Client

// Wrap applies middlewares left to right, so the first middleware is the
// outermost.
func Wrap(c Client, mws ...Middleware) Client {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
