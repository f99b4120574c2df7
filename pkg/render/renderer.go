package render

import (
	"context"

	"github.com/goliatone/go-schemadoc/pkg/descriptor"
)

// DefaultRendererName is the renderer used when callers do not pick one. The
// text renderer carries the canonical line grammar, so it is the contract
// output.
const DefaultRendererName = "text"

// Renderer converts a descriptor list into a byte representation (plain
// text, markdown, template output).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, descriptors []descriptor.Descriptor, options RenderOptions) ([]byte, error)
}
