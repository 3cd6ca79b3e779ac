// constituency-export：读取选区多边形，输出带代表点属性的 GeoJSON
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/config"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/geometry"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	cfg := config.FromEnv()
	in := flag.String("in", cfg.ConstituencyPath, "constituency polygons (.shp or .geojson)")
	field := flag.String("name-field", cfg.ConstituencyNameField, "name attribute")
	out := flag.String("out", "", "output file, stdout when empty")
	dominant := flag.Bool("dominant", false, "export only the largest part of each constituency")
	flag.Parse()

	cs, rep, err := geometry.LoadConstituencies(*in, *field)
	if err != nil {
		l.Error("constituency_load_error", "err", err)
		os.Exit(1)
	}
	for _, e := range rep.Invalid {
		l.Warn("constituency_skipped", "detail", e.Error())
	}

	if err := writeOutput(*out, geometry.ToFeatureCollection(cs, *dominant)); err != nil {
		l.Error("output_write_error", "err", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "exported %d constituencies (%d skipped, %d duplicates)\n", len(cs), len(rep.Invalid), len(rep.Duplicates))
}

// writeOutput：path 为空时写标准输出；文件在返回前关闭，关闭错误一并返回
func writeOutput(path string, v any) (err error) {
	var w io.Writer = os.Stdout
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("create %s: %w", path, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", path, cerr)
			}
		}()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
