package client

import (
	"github.com/radroots/radroots/pkg/context"
)

// MustConnect connects to a relay or panics. Intended for tests and tooling.
func MustConnect(url string) *T {
	rl, err := Connect(context.Bg(), url)
	if err != nil {
		panic(err.Error())
	}
	return rl
}
