package materials

import (
	"fmt"

	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/cubefx/textures"
)

// Resolver turns CPU materials into materials, uploading each distinct *textures.Image once.
// Materials made from the same image share the texture, which is freed when the last of them is deleted.
//
// Like the context it wraps, a Resolver must only be used from the context's thread.
type Resolver struct {
	ctx      renderer.TextureContext
	texCache map[*textures.Image]*textures.Texture2D
}

func NewResolver(ctx renderer.TextureContext) *Resolver {
	return &Resolver{
		ctx:      ctx,
		texCache: make(map[*textures.Image]*textures.Texture2D),
	}
}

func (r *Resolver) Resolve(cpuMat *CPUMaterial) (*Material, error) {

	if cpuMat.Image == nil {
		return NewMaterial(r.ctx, cpuMat)
	}

	if tex, ok := r.texCache[cpuMat.Image]; ok && tex.IsAlive() {
		return newMaterialWithSource(cpuMat, ColorSource{Kind: ColorSourceKind_Texture, Texture: tex.Retain()}), nil
	}

	tex, err := textures.NewTexture2D(r.ctx, cpuMat.Image, textures.LinearRepeatOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve material '%s': %w", cpuMat.Name, err)
	}

	img := cpuMat.Image
	tex.OnFree(func(t *textures.Texture2D) {
		if r.texCache[img] == t {
			delete(r.texCache, img)
		}
	})
	r.texCache[img] = tex

	return newMaterialWithSource(cpuMat, ColorSource{Kind: ColorSourceKind_Texture, Texture: tex}), nil
}

// CachedTextureCount is the number of live textures the resolver can hand out again
func (r *Resolver) CachedTextureCount() int {
	return len(r.texCache)
}
