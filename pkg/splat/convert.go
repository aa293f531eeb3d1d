package splat

// Options control a conversion run. Zero values fall back to the
// package defaults; Seed is used as-is so the zero seed is itself a
// reproducible run.
type Options struct {
	// Samples is the number of surface points to draw.
	Samples int

	// Seed feeds the sampling random source. Runs with equal seed,
	// sample count and mesh produce byte-identical output.
	Seed int64

	// Workers bounds concurrent sampling chunks. The result does not
	// depend on it; it only trades memory bandwidth for wall time.
	Workers int

	// ScaleFactor and Flatten shape the splats, see DefaultScaleFactor
	// and DefaultFlatten.
	ScaleFactor float32
	Flatten     float32
}

func (o Options) withDefaults() Options {
	if o.Samples <= 0 {
		o.Samples = DefaultSampleCount
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ScaleFactor <= 0 {
		o.ScaleFactor = DefaultScaleFactor
	}
	if o.Flatten <= 0 {
		o.Flatten = DefaultFlatten
	}
	return o
}

// Convert runs the full pipeline over an aggregated mesh: area table,
// area-weighted sampling, splat assembly and the importance sort. The
// returned splats are ordered front-to-back, ready for Encode.
func Convert(mesh *Mesh, opts Options) ([]Splat, error) {
	opts = opts.withDefaults()

	table, err := NewAreaTable(mesh)
	if err != nil {
		return nil, err
	}

	points := NewSampler(mesh, table).SampleN(opts.Samples, opts.Seed, opts.Workers)
	splats := Assemble(points, mesh.Bounds, opts.ScaleFactor, opts.Flatten)
	SortByImportance(splats)
	return splats, nil
}
