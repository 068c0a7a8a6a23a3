//go:build js && wasm

package web_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richinsley/glcontext/conformance"
	"github.com/richinsley/glcontext/web"
)

// Run with GOOS=js GOARCH=wasm go test -exec wasmbrowsertest ./web.
func TestConformance(t *testing.T) {
	r := (&conformance.Suite{}).Run(web.New())[0]
	if f, failed := r.Failure(); failed && f.Name == "Init" {
		t.Skipf("not in a browser: %v", f.Err)
	}
	assert.True(t, r.OK(), "%+v", r.Results)
}
