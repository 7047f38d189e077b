// Command meshgen drives the advancing front over a closed rectangular
// boundary end to end and rasterizes the result to a PNG, as a runnable
// demonstration of front.Front.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/fenwick-geo/meshfront/curve"
	"github.com/fenwick-geo/meshfront/front"
	"github.com/fenwick-geo/meshfront/mesh"
	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/rasterize"
	"github.com/fenwick-geo/meshfront/types"
)

func main() {
	var (
		width      = flag.Float64("rect-width", 10, "Width of the rectangular boundary")
		height     = flag.Float64("rect-height", 6, "Height of the rectangular boundary")
		edge       = flag.Float64("edge-length", 1, "Target edge length")
		output     = flag.String("output", "meshgen_output.png", "Output PNG file path")
		imgWidth   = flag.Int("img-width", 1024, "Output image width")
		imgHeight  = flag.Int("img-height", 1024, "Output image height")
		dump       = flag.String("dump", "", "If set, write a text summary of the finished mesh to this path")
		jsonOutput = flag.String("json-output", "", "If set, save the finished mesh as JSON to this path")
	)
	flag.Parse()

	if err := run(*width, *height, *edge, *output, *imgWidth, *imgHeight, *dump, *jsonOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(width, height, edgeLength float64, outputFile string, imgWidth, imgHeight int, dumpFile, jsonOutputFile string) error {
	boundaryPoints := []types.Point{
		{X: 0, Y: 0},
		{X: width, Y: 0},
		{X: width, Y: height},
		{X: 0, Y: height},
	}
	if _, err := mesh.NewMesh().AddPerimeter(boundaryPoints); err != nil {
		return fmt.Errorf("boundary is not a simple polygon: %w", err)
	}

	boundary, err := curve.New(boundaryPoints, true)
	if err != nil {
		return fmt.Errorf("building boundary curve: %w", err)
	}

	f := front.New()
	f.SetEdgeScale(func(types.Point) float64 { return edgeLength })
	f.AddCurve(boundary)

	fmt.Println("Initializing boundary ring...")
	if err := f.InitializeBoundaries(); err != nil {
		return fmt.Errorf("initializing boundaries: %w", err)
	}
	fmt.Printf("Boundary ring: %d nodes, %d edges\n", f.Grid().NumNodes(), f.Grid().NumEdges())

	fmt.Println("Running advancing front...")
	if err := f.Loop(0); err != nil {
		return fmt.Errorf("advancing front: %w", err)
	}
	fmt.Printf("Meshed: %d nodes, %d edges, %d cells\n",
		f.Grid().NumNodes(), f.Grid().NumEdges(), f.Grid().NumCells())

	if bad := f.Shadow().Triangulation().CheckLocalDelaunay(); len(bad) != 0 {
		fmt.Printf("Warning: shadow CDT reports %d non-Delaunay edges\n", len(bad))
	}
	if strayed := countStrayTriangles(f, boundaryPoints); strayed > 0 {
		fmt.Printf("Warning: %d triangle centroids classify outside the boundary\n", strayed)
	}

	out, err := toRasterMesh(f)
	if err != nil {
		return fmt.Errorf("converting to raster mesh: %w", err)
	}

	if dumpFile != "" {
		if err := dumpMesh(out, dumpFile); err != nil {
			return fmt.Errorf("dumping mesh summary: %w", err)
		}
		fmt.Printf("Mesh summary written to %s\n", dumpFile)
	}
	if jsonOutputFile != "" {
		if err := out.Save(jsonOutputFile); err != nil {
			return fmt.Errorf("saving mesh JSON: %w", err)
		}
		fmt.Printf("Mesh JSON written to %s\n", jsonOutputFile)
	}

	img, err := rasterize.Rasterize(out,
		rasterize.WithDimensions(imgWidth, imgHeight),
		rasterize.WithFillTriangles(true),
		rasterize.WithDrawEdges(true),
		rasterize.WithDrawVertices(true),
	)
	if err != nil {
		return fmt.Errorf("rasterizing mesh: %w", err)
	}

	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	if err := png.Encode(outFile, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}

	fmt.Printf("Success! Mesh written to %s\n", outputFile)
	return nil
}

// countStrayTriangles is a final sanity check on the finished mesh: every
// triangle's centroid should fall inside the boundary it was built from.
func countStrayTriangles(f *front.Front, boundary []types.Point) int {
	grid := f.Grid()
	strayed := 0
	for c := types.CellID(0); int(c) < grid.NumCellsCap(); c++ {
		if !grid.IsValidCell(c) {
			continue
		}
		nodes := grid.CellToNodes(c)
		p0, p1, p2 := grid.Node(nodes[0]).Pos, grid.Node(nodes[1]).Pos, grid.Node(nodes[2]).Pos
		centroid := types.Point{X: (p0.X + p1.X + p2.X) / 3, Y: (p0.Y + p1.Y + p2.Y) / 3}
		if !predicates.PointInPolygonRayCast(centroid, boundary, 1e-9) {
			strayed++
		}
	}
	return strayed
}

// dumpMesh writes a human-readable summary of out to path, for inspecting a
// finished mesh without opening the rasterized PNG.
func dumpMesh(out *mesh.Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return out.Print(f)
}

// toRasterMesh flattens a front's primary mesh into the flat mesh.Mesh
// model rasterize.Rasterize expects, skipping deleted nodes/cells.
func toRasterMesh(f *front.Front) (*mesh.Mesh, error) {
	grid := f.Grid()
	out := mesh.NewMesh()

	toVertex := make(map[types.NodeID]types.VertexID, grid.NumNodes())
	for n := types.NodeID(0); int(n) < grid.NumNodesCap(); n++ {
		if !grid.IsValidNode(n) {
			continue
		}
		vid, err := out.AddVertex(grid.Node(n).Pos)
		if err != nil {
			return nil, err
		}
		toVertex[n] = vid
	}

	for c := types.CellID(0); int(c) < grid.NumCellsCap(); c++ {
		if !grid.IsValidCell(c) {
			continue
		}
		nodes := grid.CellToNodes(c)
		if err := out.AddTriangle(toVertex[nodes[0]], toVertex[nodes[1]], toVertex[nodes[2]]); err != nil {
			return nil, err
		}
	}

	return out, nil
}
