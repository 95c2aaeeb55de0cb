package engine

import (
	"runtime"

	"github.com/bloeys/cubefx/assert"
	"github.com/bloeys/cubefx/renderer/rend3dgl"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	isInited = false
)

type WindowFlags uint32

const (
	WindowFlags_OPENGL WindowFlags = sdl.WINDOW_OPENGL
	WindowFlags_HIDDEN WindowFlags = sdl.WINDOW_HIDDEN
)

// Window owns an SDL window, its OpenGL context and the renderer drawing with that context
type Window struct {
	SDLWin *sdl.Window
	GlCtx  sdl.GLContext
	Rend   *rend3dgl.Rend3DGL
}

func (w *Window) Destroy() error {

	w.Rend.Delete()
	sdl.GLDeleteContext(w.GlCtx)
	return w.SDLWin.Destroy()
}

// Init must be called before anything else, from the goroutine that will do all rendering.
// It locks that goroutine to its OS thread since OpenGL contexts are per-thread.
func Init() error {

	isInited = true

	runtime.LockOSThread()
	return initSDL()
}

func DeInit() {
	sdl.Quit()
}

func initSDL() error {

	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return err
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)

	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	return nil
}

// CreateHiddenOpenGLWindow creates an invisible window whose only use is owning a current OpenGL context,
// which is what offscreen cube map rendering needs
func CreateHiddenOpenGLWindow(title string, width, height int32) (*Window, error) {
	return createWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, WindowFlags_OPENGL|WindowFlags_HIDDEN)
}

func createWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {

	assert.T(isInited, "engine.Init() was not called!")

	sdlWin, err := sdl.CreateWindow(title, x, y, width, height, uint32(flags))
	if err != nil {
		return nil, err
	}

	win := &Window{
		SDLWin: sdlWin,
		Rend:   &rend3dgl.Rend3DGL{},
	}

	win.GlCtx, err = sdlWin.GLCreateContext()
	if err != nil {
		sdlWin.Destroy()
		return nil, err
	}

	err = initOpenGL()
	if err != nil {
		sdl.GLDeleteContext(win.GlCtx)
		sdlWin.Destroy()
		return nil, err
	}

	return win, nil
}

func initOpenGL() error {

	if err := gl.Init(); err != nil {
		return err
	}

	gl.ClearColor(0, 0, 0, 1)
	return nil
}
