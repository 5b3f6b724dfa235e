package compute

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// GLBackend runs the acceleration kernel as an OpenGL 4.3 compute shader.
// It needs a current GL context; callers create one (e.g. with an offscreen
// window) and then Init the backend with the shader path. Until Init
// succeeds the backend reports unavailable and falls back to the CPU.
type GLBackend struct {
	program     uint32
	ssboPos     uint32
	ssboMass    uint32
	ssboAccel   uint32
	capacity    int
	initialized bool
}

func NewGLBackend() *GLBackend {
	return &GLBackend{}
}

func (b *GLBackend) Name() string {
	if b.initialized {
		return "opengl (compute shader)"
	}
	return "opengl (not initialized)"
}

func (b *GLBackend) Available() bool { return b.initialized }

// Init compiles the compute shader and allocates the storage buffers.
// A current GL context is required.
func (b *GLBackend) Init(shaderPath string, maxBodies int) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to init opengl: %v", err)
	}

	program, err := compileComputeProgram(shaderPath)
	if err != nil {
		return err
	}
	b.program = program
	b.capacity = maxBodies

	gl.GenBuffers(1, &b.ssboPos)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssboPos)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, maxBodies*2*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.ssboPos)

	gl.GenBuffers(1, &b.ssboMass)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssboMass)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, maxBodies*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, b.ssboMass)

	gl.GenBuffers(1, &b.ssboAccel)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssboAccel)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, maxBodies*2*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 2, b.ssboAccel)

	b.initialized = true
	return nil
}

func (b *GLBackend) Cleanup() {
	if !b.initialized {
		return
	}
	gl.DeleteBuffers(1, &b.ssboPos)
	gl.DeleteBuffers(1, &b.ssboMass)
	gl.DeleteBuffers(1, &b.ssboAccel)
	gl.DeleteProgram(b.program)
	b.initialized = false
}

func (b *GLBackend) Accelerations(positions, masses []float64, g, softening float64) ([]float64, []float64) {
	n := len(masses)
	if !b.initialized || n > b.capacity {
		cpu := NewCPUBackend()
		return cpu.Accelerations(positions, masses, g, softening)
	}

	posF := make([]float32, n*2)
	massF := make([]float32, n)
	for i := range positions[:n*2] {
		posF[i] = float32(positions[i])
	}
	for i := range masses {
		massF[i] = float32(masses[i])
	}

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssboPos)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*2*4, gl.Ptr(posF))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssboMass)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*4, gl.Ptr(massF))

	gl.UseProgram(b.program)
	gl.Uniform1i(gl.GetUniformLocation(b.program, gl.Str("numBodies\x00")), int32(n))
	gl.Uniform1f(gl.GetUniformLocation(b.program, gl.Str("gravity\x00")), float32(g))
	gl.Uniform1f(gl.GetUniformLocation(b.program, gl.Str("softening\x00")), float32(softening))

	numGroups := (n + 255) / 256
	gl.DispatchCompute(uint32(numGroups), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)

	accF := make([]float32, n*2)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssboAccel)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*2*4, gl.Ptr(accF))

	ax := make([]float64, n)
	ay := make([]float64, n)
	for i := 0; i < n; i++ {
		ax[i] = float64(accF[i*2])
		ay[i] = float64(accF[i*2+1])
	}
	return ax, ay
}

func compileComputeProgram(path string) (uint32, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := string(source) + "\x00"

	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(content)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to compile compute shader: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("failed to link compute program")
	}

	gl.DeleteShader(shader)
	return program, nil
}
