package store

import "src.specplot.dev/pkg/logutil"

var logger = logutil.GetLogger("[store] ")
