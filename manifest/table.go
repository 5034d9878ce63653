package manifest

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/rgbdcapture/spatialmath"
)

// String prints a table with one row per frame: canonical position, file_path, depth source and
// canonical camera position.
func (seq *Sequence) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "File", "Depth", "Translation"})
	for i, f := range seq.frames {
		depth := f.DepthPath
		if f.DepthGuessed {
			depth += " (guessed)"
		}
		tra := spatialmath.Translation(f.Pose)
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			f.FilePath,
			depth,
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d frames", len(seq.frames)), fmt.Sprintf("png depth scale %g", seq.pngDepthScale), ""})
	return t.Render()
}

// String prints the counts as a two column table.
func (s WriteSummary) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Frames", "Count"})
	t.AppendRow([]interface{}{"requested", s.Requested})
	t.AppendRow([]interface{}{"written", s.Written})
	t.AppendRow([]interface{}{"skipped (no color)", s.Skipped})
	t.AppendRow([]interface{}{"without depth", s.WithoutDepth})
	t.AppendRow([]interface{}{"identity pose", s.IdentityPoses})
	t.AppendRow([]interface{}{"written to disk", units.HumanSize(float64(s.BytesWritten))})
	return t.Render()
}
