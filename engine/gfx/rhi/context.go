package rhi

// Context is the GPU context of a window target, shared by its aliases.
type Context struct {
	WindowID WindowID
	handle   ContextHandle

	WindowW, WindowH             int
	DrawableW, DrawableH         int
	StoredWindowW, StoredWindowH int

	failed bool

	defaultTexturedProgram   uint32
	defaultUntexturedProgram uint32
	defaultTexturedShaders   [2]uint32
	defaultUntexturedShaders [2]uint32
	defaultTexturedBlock     ShaderBlock
	defaultUntexturedBlock   ShaderBlock

	currentProgram uint32
	currentBlock   ShaderBlock

	// activeTarget is the target whose framebuffer is bound, or nil when
	// unknown.
	activeTarget *Target

	useTexturing      bool
	shapesUseBlending bool
	shapesBlendMode   BlendMode
	lineThickness     float32

	refs int
	data *contextData
}

// Failed reports whether context creation stopped part way.
func (c *Context) Failed() bool { return c.failed }

func (c *Context) Handle() ContextHandle { return c.handle }

func (c *Context) CurrentProgram() uint32 { return c.currentProgram }

func (c *Context) DefaultPrograms() (textured, untextured uint32) {
	return c.defaultTexturedProgram, c.defaultUntexturedProgram
}

func (c *Context) ActiveTarget() *Target { return c.activeTarget }

func (c *Context) Refs() int { return c.refs }

type dirtyBits uint32

const (
	dirtyTexture dirtyBits = 1 << iota
	dirtyFramebuffer
	dirtyViewport
	dirtyCamera
	dirtyBlending
	dirtyBlendMode
	dirtyDepthTest
	dirtyDepthWrite
	dirtyDepthFunction
	dirtyProgram
	dirtyTexturing
	dirtyShape
)

// attributeSource is a custom vertex attribute fed alongside the blit buffer.
type attributeSource struct {
	attribute Attribute
	enabled   bool
	numValues int
	storage   []byte
	next      int // byte offset of the first value not yet drawn
	stride    int
	offset    int
}

func (a *attributeSource) active() bool {
	return a.attribute.Values != nil && a.attribute.Location >= 0
}

// contextData is the per-context state cache and the geometry staging area.
type contextData struct {
	lastUseTexturing   bool
	lastShape          Primitive
	lastUseBlending    bool
	lastBlendMode      BlendMode
	lastViewport       Rect
	lastCamera         Camera
	lastCameraInverted bool
	lastDepthTest      bool
	lastDepthWrite     bool
	lastDepthFunction  Comparison
	lastImage          *Image
	lastTarget         *Target

	blitBuffer  []float32
	numVertices int
	maxVertices int
	indexBuffer []uint16
	numIndices  int
	maxIndices  int

	vao     uint32
	vbo     [2]uint32
	vboFlop bool
	ibo     uint32

	attributes   [maxAttributeSources]attributeSource
	attributeVBO [maxAttributeSources]uint32

	dirty    dirtyBits
	flushing bool
}

func newContextData(maxVertices, maxIndices int) *contextData {
	return &contextData{
		blitBuffer:  make([]float32, maxVertices*floatsPerVertex),
		maxVertices: maxVertices,
		indexBuffer: make([]uint16, maxIndices),
		maxIndices:  maxIndices,
	}
}
