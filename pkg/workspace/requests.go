package workspace

// Result carries the outcome of a request, since the backend only transports
// values.
type Result[T any] struct {
	Value T
	Err   error
}

func result[T any](v T, err error) Result[T] { return Result[T]{v, err} }

// The functions below build computations for backend.Submit and
// uiparam.Request.

// AddSeries returns a computation that stores a series and returns the new
// revision.
func AddSeries(name string, values []float64) func(*Worker) Result[int] {
	values = append([]float64(nil), values...)
	return func(w *Worker) Result[int] {
		st := w.State()
		err := st.AddSeries(name, values)
		return result(st.Revision(), err)
	}
}

// GetSeries returns a computation that fetches a series. The values are copied
// so that the UI side never shares memory with the state.
func GetSeries(name string) func(*Worker) Result[[]float64] {
	return func(w *Worker) Result[[]float64] {
		values, err := w.State().Series(name)
		return result(append([]float64(nil), values...), err)
	}
}

// Names returns a computation that lists all series.
func Names() func(*Worker) Result[[]string] {
	return func(w *Worker) Result[[]string] { return result(w.State().Names()) }
}

// DelSeries returns a computation that deletes a series and returns the new
// revision.
func DelSeries(name string) func(*Worker) Result[int] {
	return func(w *Worker) Result[int] {
		st := w.State()
		err := st.DelSeries(name)
		return result(st.Revision(), err)
	}
}

// Summarize returns a computation that summarizes a series.
func Summarize(name string) func(*Worker) Result[Summary] {
	return func(w *Worker) Result[Summary] { return result(w.State().Summary(name)) }
}

// Downsample returns a computation that downsamples a series to n buckets.
func Downsample(name string, n int) func(*Worker) Result[[]Bucket] {
	return func(w *Worker) Result[[]Bucket] { return result(w.State().Downsample(name, n)) }
}

// Plot returns a computation that downsamples a series to the number of
// buckets given by the plot.buckets setting.
func Plot(name string) func(*Worker) Result[[]Bucket] {
	return func(w *Worker) Result[[]Bucket] {
		st := w.State()
		return result(st.Downsample(name, st.PlotBuckets()))
	}
}

// GetSetting returns a computation that fetches a setting.
func GetSetting(key string) func(*Worker) Result[string] {
	return func(w *Worker) Result[string] { return result(w.State().Setting(key)) }
}

// SetSetting returns a computation that sets a setting.
func SetSetting(key, value string) func(*Worker) Result[struct{}] {
	return func(w *Worker) Result[struct{}] {
		return Result[struct{}]{Err: w.State().SetSetting(key, value)}
	}
}

// DelSetting returns a computation that deletes a setting.
func DelSetting(key string) func(*Worker) Result[struct{}] {
	return func(w *Worker) Result[struct{}] {
		return Result[struct{}]{Err: w.State().DelSetting(key)}
	}
}
