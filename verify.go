package arena

import (
	"github.com/cockroachdb/errors"
	"github.com/kelindar/bitmap"
)

// Verify checks the bookkeeping of a: every live region lies inside the
// buffer, regions are sorted by offset, no two regions share a byte, and the
// bytes in use never exceed capacity. It returns nil on a consistent arena.
//
// Verify walks every byte of every region and is meant for tests and
// debugging, not for hot paths.
func (a *Arena) Verify() error {
	a.panicIfReleased()
	used := make(bitmap.Bitmap, (len(a.buf)>>6)+1)
	total := 0
	for i, r := range a.regions {
		if r.Offset < 0 || r.Length < 0 || r.End() > len(a.buf) {
			return errors.Newf("region %d %s lies outside buffer of %d bytes", i, r.Extent, len(a.buf))
		}
		if i > 0 && a.regions[i-1].Offset > r.Offset {
			return errors.Newf("region %d %s is out of order after %s", i, r.Extent, a.regions[i-1].Extent)
		}
		for b := r.Offset; b < r.End(); b++ {
			if used.Contains(uint32(b)) {
				return errors.Newf("region %d %s overlaps another region at byte %d", i, r.Extent, b)
			}
			used.Set(uint32(b))
		}
		total += r.Length
	}
	if n := used.Count(); n != total {
		return errors.AssertionFailedf("occupancy map holds %d bytes, regions hold %d", n, total)
	}
	if total > len(a.buf) {
		return errors.Newf("%d bytes in use exceed capacity %d", total, len(a.buf))
	}
	return nil
}
