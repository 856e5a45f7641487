package iofetch

import (
	"github.com/cheggaaa/pb/v3"
)

// newProgressBar creates a byte counter for downloads of unknown size.
func newProgressBar(prefix string) *pb.ProgressBar {
	bar := pb.Full.Start64(0)
	bar.Set("prefix", prefix)
	bar.Set(pb.Bytes, true)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
