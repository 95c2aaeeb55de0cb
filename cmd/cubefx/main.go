package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bloeys/cubefx/buffers"
	"github.com/bloeys/cubefx/effects"
	"github.com/bloeys/cubefx/engine"
	"github.com/bloeys/cubefx/logging"
	"github.com/bloeys/cubefx/materials"
	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/cubefx/shaders"
	"github.com/bloeys/cubefx/textures"
	"github.com/bloeys/gglm/gglm"
	"github.com/pierrec/lz4/v4"
)

func main() {

	configPath := flag.String("config", "cubefx.toml", "path of the toml config to render with")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to load config. Err: ", err)
	}

	err = engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err: ", err)
	}
	defer engine.DeInit()

	win, err := engine.CreateHiddenOpenGLWindow("cubefx", 1, 1)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer win.Destroy()

	written, err := Run(win.Rend, &cfg)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to render cube map. Err: ", err)
	}

	win.Rend.FrameEnd()
	logging.InfoLog.Printf("Wrote %d faces to '%s'\n", len(written), cfg.OutDir)
}

// Run renders the configured fragment shader into every face and mip of a new cube map,
// writes each face to cfg.OutDir and returns the written paths.
func Run(ctx renderer.Context, cfg *Config) ([]string, error) {

	states, err := cfg.RenderStates.Parse()
	if err != nil {
		return nil, err
	}

	fragSrc, err := shaders.LoadShaderSrc(cfg.FragmentShader)
	if err != nil {
		return nil, err
	}

	effect, err := effects.NewCubeEffect(ctx, fragSrc)
	if err != nil {
		return nil, err
	}
	defer effect.Delete()

	mats, err := resolveMaterials(ctx, cfg.Materials)
	if err != nil {
		return nil, err
	}
	defer deleteMaterials(mats)

	// Shaders that declare a material get the first one, or the default material if none are configured
	prog := effect.Program()
	if prog.HasUniform("material.color") || prog.HasUniform("material.diffuse") {

		mat := materials.DefaultMaterial()
		if len(mats) > 0 {
			mat = mats[0]
		}

		if err := mat.Bind(prog); err != nil {
			return nil, err
		}
	} else if len(mats) > 0 {
		logging.WarnLog.Printf("Shader '%s' declares no material uniforms, ignoring %d configured materials\n", cfg.FragmentShader, len(mats))
	}

	fbo, err := buffers.NewCubemapFramebuffer(ctx, cfg.Size, cfg.MipLevels)
	if err != nil {
		return nil, err
	}
	defer fbo.Delete()

	if err := os.MkdirAll(cfg.OutDir, os.ModePerm); err != nil {
		return nil, err
	}

	written := make([]string, 0, cfg.MipLevels*uint32(len(renderer.CubeMapSides)))
	for mip := uint32(0); mip < cfg.MipLevels; mip++ {

		if err := effect.RenderCubemap(fbo, mip, states); err != nil {
			return written, err
		}

		mipSize := fbo.MipSize(mip)
		for _, side := range renderer.CubeMapSides {

			pix, err := fbo.ReadFace(side, mip)
			if err != nil {
				return written, err
			}

			path := filepath.Join(cfg.OutDir, FaceFileName(side, mip, cfg.Format))
			if err := writeFace(path, cfg.Format, mipSize, pix); err != nil {
				return written, err
			}

			written = append(written, path)
		}

		logging.InfoLog.Printf("Rendered mip %d (%dx%d)\n", mip, mipSize, mipSize)
	}

	fbo.UnBind()
	return written, nil
}

// FaceFileName is of the form 'face_m<mip>_<pos|neg><axis>.<format>', for example 'face_m0_posx.png'
func FaceFileName(side renderer.CubeMapSide, mipLevel uint32, format string) string {
	sideName := strings.NewReplacer("+", "pos", "-", "neg").Replace(side.String())
	return fmt.Sprintf("face_m%d_%s.%s", mipLevel, sideName, format)
}

func writeFace(path, format string, size uint32, pix []byte) error {

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case OutputFormat_RawLz4:

		w := lz4.NewWriter(f)
		if _, err := w.Write(pix); err != nil {
			return err
		}
		return w.Close()

	default:
		return png.Encode(f, faceToImage(size, pix))
	}
}

// faceToImage flips the rows since GL returns the bottom row first
func faceToImage(size uint32, pix []byte) *image.NRGBA {

	img := image.NewNRGBA(image.Rect(0, 0, int(size), int(size)))
	rowLen := int(size) * 4
	for y := 0; y < int(size); y++ {
		srcRow := pix[(int(size)-1-y)*rowLen : (int(size)-y)*rowLen]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], srcRow)
	}

	return img
}

func resolveMaterials(ctx renderer.TextureContext, matConfigs []MaterialConfig) ([]*materials.Material, error) {

	resolver := materials.NewResolver(ctx)
	mats := make([]*materials.Material, 0, len(matConfigs))

	// Same path means same image, which lets the resolver upload it once
	imgCache := map[string]*textures.Image{}
	for _, mc := range matConfigs {

		cpuMat := &materials.CPUMaterial{
			Name:              mc.Name,
			DiffuseIntensity:  mc.DiffuseIntensity,
			SpecularIntensity: mc.SpecularIntensity,
			SpecularPower:     mc.SpecularPower,
		}

		if len(mc.Color) == 4 {
			color := gglm.NewVec4(mc.Color[0], mc.Color[1], mc.Color[2], mc.Color[3])
			cpuMat.Color = &color
		}

		if mc.Image != "" {

			img, ok := imgCache[mc.Image]
			if !ok {

				var err error
				img, err = loadImage(mc.Image)
				if err != nil {
					deleteMaterials(mats)
					return nil, err
				}
				imgCache[mc.Image] = img
			}

			cpuMat.Image = img
		}

		mat, err := resolver.Resolve(cpuMat)
		if err != nil {
			deleteMaterials(mats)
			return nil, err
		}

		mats = append(mats, mat)
	}

	return mats, nil
}

func deleteMaterials(mats []*materials.Material) {
	for _, m := range mats {
		m.Delete()
	}
}

func loadImage(path string) (*textures.Image, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}

	return textures.FromImage(img), nil
}
