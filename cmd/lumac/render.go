package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumakit/luma/assets"
	"github.com/lumakit/luma/backend"
	_ "github.com/lumakit/luma/backend/wgpu"
	"github.com/lumakit/luma/compile"
	"github.com/lumakit/luma/container"
	"github.com/lumakit/luma/render"
)

var (
	flagFrame   int
	flagBackend string
)

func init() {
	renderCmd.Flags().IntVar(&flagFrame, "frame", 0, "frame to render")
	renderCmd.Flags().StringVar(&flagBackend, "backend", "", "executor name (default: best available)")
}

var renderCmd = &cobra.Command{
	Use:   "render [document.json|artifact.lumc] [out.png]",
	Short: "Render one frame to a PNG",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := loadArtifact(args[0])
		if err != nil {
			return err
		}

		var exec backend.Executor
		if flagBackend != "" {
			exec = backend.Get(flagBackend, artifact.Registry)
			if exec == nil {
				return fmt.Errorf("unknown backend %q (available: %v)", flagBackend, backend.Available())
			}
		} else {
			exec = backend.Default(artifact.Registry)
			if exec == nil {
				return backend.ErrNotAvailable
			}
		}
		if err := exec.Init(); err != nil {
			return err
		}
		defer exec.Close()

		if len(artifact.Anim.Assets) > 0 {
			bufs, err := assets.LoadAll(artifact.Anim, assets.NewLocalResolver(flagAssets))
			if err != nil {
				return err
			}
			for id, buf := range bufs {
				exec.SetAsset(id, buf)
			}
		}

		frame := render.NewGenerator(artifact.Anim).Frame(flagFrame)
		for _, issue := range frame.Issues {
			fmt.Fprintf(cmd.ErrOrStderr(), "issue: %s\n", issue)
		}

		meta := artifact.Anim.Meta
		buf, err := exec.Execute(frame.Commands, meta.Width, meta.Height)
		if err != nil {
			return err
		}

		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer out.Close()
		if err := png.Encode(out, buf.ToRGBA()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rendered frame %d to %s\n", frame.Index, args[1])
		return nil
	},
}

// loadArtifact accepts either a compiled artifact or a raw document,
// compiling the latter on the fly.
func loadArtifact(path string) (*container.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".json") {
		doc, err := loadDocument(path)
		if err != nil {
			return nil, err
		}
		result, err := compile.Compile(doc, validateContext(path))
		if err != nil {
			return nil, err
		}
		return container.New(result.Anim, result.Registry), nil
	}
	return container.Unmarshal(data)
}
