// Package fs is the filesystem world: message functions that read files on
// the world that owns disk access and hand the results to other worlds.
package fs

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antigen-go/antigen/internal/core/component"
	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/exchange"
)

type (
	FilePath   struct{}
	FileString struct{}
	FileBytes  struct{}
)

type (
	FilePathComponent   = component.Usage[FilePath, string]
	FileStringComponent = component.Usage[FileString, string]
	FileBytesComponent  = component.Usage[FileBytes, []byte]
)

// SpawnFileString spawns an entity holding path and its text contents.
func SpawnFileString(w *ecs.World, path, contents string) ecs.EntityID {
	id := ecs.Spawn(w, component.NewUsage[FilePath](path))
	_ = ecs.Insert(w, id, component.NewUsage[FileString](contents))
	return id
}

// SpawnFileBytes spawns an entity holding path and its raw contents.
func SpawnFileBytes(w *ecs.World, path string, contents []byte) ecs.EntityID {
	id := ecs.Spawn(w, component.NewUsage[FilePath](path))
	_ = ecs.Insert(w, id, component.NewUsage[FileBytes](contents))
	return id
}

// FileStringFor returns the text of the first loaded file at path.
func FileStringFor(w *ecs.World, path string) (string, bool) {
	var (
		out   string
		found bool
	)
	ecs.Each2(w, func(_ ecs.EntityID, p *FilePathComponent, s *FileStringComponent) {
		if !found && p.Get() == path {
			out, found = s.Get(), true
		}
	})
	return out, found
}

// FileBytesFor returns the bytes of the first loaded file at path.
func FileBytesFor(w *ecs.World, path string) ([]byte, bool) {
	var (
		out   []byte
		found bool
	)
	ecs.Each2(w, func(_ ecs.EntityID, p *FilePathComponent, b *FileBytesComponent) {
		if !found && p.Get() == path {
			out, found = b.Get(), true
		}
	})
	return out, found
}

// LoadFileString reads path as text and spawns it into the receiving world.
func LoadFileString(path string) exchange.MessageFunc {
	return func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
		log := ctx.Channel.Logger()
		log.Debug("loading file", zap.String("path", path))
		raw, err := os.ReadFile(path)
		if err != nil {
			return ctx, eris.Wrapf(err, "load file string %s", path)
		}
		id := SpawnFileString(ctx.World, path, string(raw))
		log.Debug("loaded file", zap.String("path", path), zap.Int("bytes", len(raw)), zap.Uint64("entity", uint64(id)))
		return ctx, nil
	}
}

// LoadFileBytes reads path and spawns its bytes into the receiving world.
func LoadFileBytes(path string) exchange.MessageFunc {
	return func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
		log := ctx.Channel.Logger()
		log.Debug("loading file", zap.String("path", path))
		raw, err := os.ReadFile(path)
		if err != nil {
			return ctx, eris.Wrapf(err, "load file bytes %s", path)
		}
		id := SpawnFileBytes(ctx.World, path, raw)
		log.Debug("loaded file", zap.String("path", path), zap.Int("bytes", len(raw)), zap.Uint64("entity", uint64(id)))
		return ctx, nil
	}
}

// SendFileString forwards the already loaded text at path to world to.
func SendFileString(path string, to exchange.Identity) exchange.MessageFunc {
	return func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
		s, ok := FileStringFor(ctx.World, path)
		if !ok {
			return ctx, eris.Wrapf(exchange.ErrNoSuchComponent, "file %s not loaded", path)
		}
		return ctx, ctx.Channel.SendTo(to, func(ctx exchange.MessageContext) (exchange.MessageContext, error) {
			SpawnFileString(ctx.World, path, s)
			return ctx, nil
		})
	}
}
