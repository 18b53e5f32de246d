package connectome

import "connectome/pkg/logging"

type options struct {
	workers      int
	keepIsolates bool
	logger       *logging.Logger
}

// Option configures a graph builder.
type Option func(*options)

// WithWorkers splits the streamline loop across n goroutines. Values below
// 2 run the loop on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithIsolates keeps every region id of the label volume as a node, even
// when no streamline connects it to another region.
func WithIsolates(keep bool) Option {
	return func(o *options) { o.keepIsolates = keep }
}

// WithLogger sets the logger used for build progress.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{workers: 1}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = logging.Noop()
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}
