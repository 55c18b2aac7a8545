package telemetry

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

type fakeBody struct {
	name  string
	pos   dynamo.Vec3
	rot   dynamo.Quat
	vel   dynamo.Vec3
	omega dynamo.Vec3
	shape dynamo.Shape
}

func (b *fakeBody) Name() string                 { return b.name }
func (b *fakeBody) Position() dynamo.Vec3        { return b.pos }
func (b *fakeBody) Orientation() dynamo.Quat     { return b.rot }
func (b *fakeBody) LinearVelocity() dynamo.Vec3  { return b.vel }
func (b *fakeBody) AngularVelocity() dynamo.Vec3 { return b.omega }
func (b *fakeBody) Shape() dynamo.Shape          { return b.shape }

func sphere(name string, x, y, z float64) *fakeBody {
	return &fakeBody{
		name:  name,
		pos:   dynamo.V(x, y, z),
		rot:   dynamo.Identity(),
		shape: dynamo.Sphere{Radius: 1},
	}
}

func bodies(bs ...*fakeBody) []dynamo.Body {
	out := make([]dynamo.Body, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadDoc(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
