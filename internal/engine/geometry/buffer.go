// Package geometry uploads flat vertex streams to the GPU.
package geometry

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/penumbra/pkg/formats"
)

// ErrEmpty is returned when a buffer is requested for zero vertices.
var ErrEmpty = errors.New("geometry: no vertices")

// Attribute describes one vertex attribute inside formats.Vertex.
type Attribute struct {
	Location   uint32
	Components int32
	Offset     uintptr
}

// Stride is the byte size of one formats.Vertex.
const Stride = int32(unsafe.Sizeof(formats.Vertex{}))

// Layout is the attribute layout shared by every shader in the module:
// position at 0, normal at 1, texture coordinate at 2.
var Layout = []Attribute{
	{Location: 0, Components: 3, Offset: unsafe.Offsetof(formats.Vertex{}.Position)},
	{Location: 1, Components: 3, Offset: unsafe.Offsetof(formats.Vertex{}.Normal)},
	{Location: 2, Components: 2, Offset: unsafe.Offsetof(formats.Vertex{}.TexCoord)},
}

// Buffer is a vertex array object plus its vertex buffer. It is drawn as a
// plain triangle list without an index buffer.
type Buffer struct {
	vao   uint32
	vbo   uint32
	count int32
}

// New uploads vertices into a new static buffer.
func New(vertices []formats.Vertex) (*Buffer, error) {
	if len(vertices) == 0 {
		return nil, ErrEmpty
	}

	b := &Buffer{count: int32(len(vertices))}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(Stride), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	for _, a := range Layout {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, Stride, a.Offset)
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

// Count returns the number of vertices in the buffer.
func (b *Buffer) Count() int32 {
	return b.count
}

// Draw issues one draw call for the whole buffer.
func (b *Buffer) Draw() {
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, b.count)
	gl.BindVertexArray(0)
}

// Release deletes the GPU objects. Calling it twice is safe.
func (b *Buffer) Release() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
