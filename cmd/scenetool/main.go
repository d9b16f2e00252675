// scenetool is a CLI utility for checking penumbra scenes and meshes
// without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Faultbox/penumbra/internal/config"
	"github.com/Faultbox/penumbra/internal/scene"
	"github.com/Faultbox/penumbra/pkg/formats"
	"github.com/Faultbox/penumbra/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "validate", "check":
		err = cmdValidate(os.Stdout, args)
	case "mesh":
		err = cmdMesh(os.Stdout, args)
	case "config":
		err = cmdConfig(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scenetool - penumbra scene utility

Usage:
  scenetool <command> [options]

Commands:
  validate [-shadow WxH] <scene>   Load a scene and print its contents
  mesh <file> [file...]            Print vertex counts and bounds
  config [-config path] [-write path|user]
                                   Print the effective configuration

Examples:
  scenetool validate assets/scenes/cube.json
  scenetool validate -shadow 2048x2048 room.yaml
  scenetool mesh assets/scenes/cube.obj
  scenetool config -config config.yaml`)
}

func cmdValidate(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	size := fs.String("shadow", "1400x900", "Shadow layer size used for light matrices")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: scenetool validate [-shadow WxH] <scene>")
	}

	width, height, err := parseSize(*size)
	if err != nil {
		return err
	}
	s, err := scene.Load(fs.Arg(0), scene.DefaultShadowParams(width, height))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Scene:     %s\n", fs.Arg(0))
	fmt.Fprintf(out, "Camera:    eye %v gaze %v up %v fovy %v near %v far %v\n",
		s.Camera.Eye, s.Camera.Gaze, s.Camera.Up, s.Camera.FovY, s.Camera.Near, s.Camera.Far)
	fmt.Fprintf(out, "Material:  Ia %v Ka %v Kd %v Ks %v p %v\n",
		s.Material.Ambient, s.Material.Ka, s.Material.Kd, s.Material.Ks, s.Material.Shininess)
	fmt.Fprintf(out, "Triangles: %d\n", s.Triangles())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nMESH\tVERTICES\tPATH")
	for _, m := range s.Meshes {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", m.ID, len(m.Vertices), m.Path)
	}
	fmt.Fprintln(tw, "\nTEXTURE\tSIZE\tPATH")
	for _, t := range s.Textures {
		fmt.Fprintf(tw, "%s\t%v\t%s\n", t.ID, t.Image.Bounds().Size(), t.Path)
	}
	fmt.Fprintln(tw, "\nMODEL\tMESH\tTEXTURE\tROTATION\tSCALE\tTRANSLATE")
	for i, m := range s.Models {
		tex := "-"
		if m.Texture != scene.NoTexture {
			tex = s.Textures[m.Texture].ID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v deg about %v\t%v\t%v\n",
			i, s.Meshes[m.Mesh].ID, tex, m.RotationDeg, m.Axis, m.Scale, m.Translate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for i := range s.Lights {
		l := &s.Lights[i]
		fmt.Fprintf(out, "\nLight %d: position %v intensity %v\n", i, l.Position(), l.Intensity)
		writeMatrix(out, "  shadow", l.ShadowTransform())
	}
	return nil
}

func cmdMesh(out io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: scenetool mesh <file> [file...]")
	}
	for _, path := range args {
		verts, err := formats.LoadMesh(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", path, formats.Summarize(verts))
	}
	return nil
}

func cmdConfig(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	path := fs.String("config", "", "Config file to overlay on the defaults")
	write := fs.String("write", "", `Also save the result to this path ("user" for the user config directory)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFile(*path)
	if err != nil {
		return err
	}
	switch *write {
	case "":
	case "user":
		err = cfg.Save()
	default:
		err = cfg.SaveTo(*write)
	}
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: must be positive", s)
	}
	return w, h, nil
}

// writeMatrix prints m row by row.
func writeMatrix(out io.Writer, label string, m math.Mat4) {
	for r := 0; r < 4; r++ {
		prefix := strings.Repeat(" ", len(label))
		if r == 0 {
			prefix = label
		}
		fmt.Fprintf(out, "%s [% 9.4f % 9.4f % 9.4f % 9.4f]\n",
			prefix, m.At(r, 0), m.At(r, 1), m.At(r, 2), m.At(r, 3))
	}
}
