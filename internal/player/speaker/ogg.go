package speaker

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"
)

// jfreymuth/vorbis decodes raw packets; the Ogg framing is handled here.

const (
	oggHeaderLen = 27
	oggContinued = 0x01
)

var (
	errNotOgg    = errors.New("ogg: missing capture pattern")
	errNotVorbis = errors.New("ogg: stream is not vorbis")
)

type oggPage struct {
	granule   int64 // -1 when no packet ends on the page
	continued bool
	segments  []byte
}

func (p oggPage) bodyLen() int64 {
	var n int64
	for _, s := range p.segments {
		n += int64(s)
	}
	return n
}

func (p oggPage) size() int64 {
	return oggHeaderLen + int64(len(p.segments)) + p.bodyLen()
}

// readOggPage reads a page header and its segment table. The body is
// left unread.
func readOggPage(r io.Reader) (oggPage, error) {
	var hdr [oggHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return oggPage{}, err
	}
	if string(hdr[:4]) != "OggS" {
		return oggPage{}, errNotOgg
	}
	segs := make([]byte, hdr[26])
	if _, err := io.ReadFull(r, segs); err != nil {
		return oggPage{}, err
	}
	return oggPage{
		granule:   int64(binary.LittleEndian.Uint64(hdr[6:14])),
		continued: hdr[5]&oggContinued != 0,
		segments:  segs,
	}, nil
}

// oggPackets reassembles packets from consecutive pages.
type oggPackets struct {
	r       io.ReadSeeker
	offset  int64
	pending [][]byte
	partial []byte
	discard bool // drop the tail of a packet that began before a seek point
}

func (o *oggPackets) reset(offset int64) error {
	if _, err := o.r.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrap(err, "ogg: seek")
	}
	o.offset = offset
	o.pending = nil
	o.partial = nil
	o.discard = true
	return nil
}

func (o *oggPackets) next() ([]byte, error) {
	for len(o.pending) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	pkt := o.pending[0]
	o.pending = o.pending[1:]
	return pkt, nil
}

func (o *oggPackets) readPage() error {
	page, err := readOggPage(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, page.bodyLen())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}
	o.offset += page.size()

	if !page.continued {
		o.partial = nil
		o.discard = false
	}
	pos := 0
	for _, lace := range page.segments {
		o.partial = append(o.partial, body[pos:pos+int(lace)]...)
		pos += int(lace)
		if lace == 255 {
			continue
		}
		if o.discard {
			o.discard = false
		} else {
			o.pending = append(o.pending, o.partial)
		}
		o.partial = nil
	}
	return nil
}

// oggMark is the end offset of a page and the granule reached there.
type oggMark struct {
	end     int64
	granule int64
}

// indexOggPages lists the pages from offset on that carry a granule.
// Scanning stops at the first unreadable page.
func indexOggPages(r io.ReadSeeker, offset int64) ([]oggMark, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "ogg: seek")
	}
	var marks []oggMark
	for {
		page, err := readOggPage(r)
		if err != nil {
			break
		}
		offset += page.size()
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "ogg: seek")
		}
		if page.granule >= 0 {
			marks = append(marks, oggMark{end: offset, granule: page.granule})
		}
	}
	return marks, nil
}

// vorbisIdentification returns channels and sample rate from the first
// header packet.
func vorbisIdentification(pkt []byte) (channels, rate int, err error) {
	if len(pkt) < 16 || pkt[0] != 0x01 || string(pkt[1:7]) != "vorbis" {
		return 0, 0, errNotVorbis
	}
	if binary.LittleEndian.Uint32(pkt[7:11]) != 0 {
		return 0, 0, errors.Wrap(errNotVorbis, "unknown version")
	}
	channels = int(pkt[11])
	rate = int(binary.LittleEndian.Uint32(pkt[12:16]))
	if channels == 0 || rate == 0 {
		return 0, 0, errors.Wrap(errNotVorbis, "empty identification header")
	}
	return channels, rate, nil
}

// decodeVorbis opens an Ogg Vorbis stream. The returned streamer closes rs.
// Seeks are page-granular and land within one packet of the target.
func decodeVorbis(rs io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	v := &vorbisStreamer{rs: rs, packets: &oggPackets{r: rs}}

	for i := range 3 {
		pkt, err := v.packets.next()
		if err != nil {
			return nil, beep.Format{}, errors.Wrap(err, "vorbis: read headers")
		}
		if i == 0 {
			if v.channels, v.rate, err = vorbisIdentification(pkt); err != nil {
				return nil, beep.Format{}, err
			}
		}
		if err := v.dec.ReadHeader(pkt); err != nil {
			return nil, beep.Format{}, errors.Wrap(err, "vorbis: header")
		}
	}
	v.dataStart = v.packets.offset

	marks, err := indexOggPages(rs, v.dataStart)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if len(marks) == 0 {
		return nil, beep.Format{}, errors.New("vorbis: no audio pages")
	}
	v.marks = marks
	for _, m := range marks {
		v.total = max(v.total, int(m.granule))
	}
	if err := v.packets.reset(v.dataStart); err != nil {
		return nil, beep.Format{}, err
	}
	v.packets.discard = false

	format := beep.Format{
		SampleRate:  beep.SampleRate(v.rate),
		NumChannels: v.channels,
		Precision:   2,
	}
	return v, format, nil
}

type vorbisStreamer struct {
	rs       io.ReadSeekCloser
	packets  *oggPackets
	dec      vorbis.Decoder
	channels int
	rate     int

	dataStart int64
	marks     []oggMark
	total     int // samples per channel

	buf    []float32 // interleaved
	bufPos int
	pos    int
	skip   int // frames to drop after a seek
	err    error
}

func (v *vorbisStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && v.pos < v.total {
		if v.bufPos >= len(v.buf) {
			if !v.refill() {
				break
			}
			continue
		}
		frame := v.buf[v.bufPos : v.bufPos+v.channels]
		v.bufPos += v.channels
		if v.skip > 0 {
			v.skip--
			continue
		}
		samples[n][0] = float64(frame[0])
		samples[n][1] = float64(frame[min(1, v.channels-1)])
		n++
		v.pos++
	}
	return n, n > 0
}

func (v *vorbisStreamer) refill() bool {
	pkt, err := v.packets.next()
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			v.err = err
		}
		return false
	}
	out, err := v.dec.Decode(pkt)
	if err != nil {
		v.err = errors.Wrap(err, "vorbis: decode")
		return false
	}
	if len(out)%v.channels != 0 {
		v.err = errors.New("vorbis: truncated frame")
		return false
	}
	v.buf, v.bufPos = out, 0
	return true
}

func (v *vorbisStreamer) Err() error    { return v.err }
func (v *vorbisStreamer) Len() int      { return v.total }
func (v *vorbisStreamer) Position() int { return v.pos }

// Seek restarts decoding at the page boundary preceding p.
func (v *vorbisStreamer) Seek(p int) error {
	if p < 0 || p > v.total {
		return errors.Newf("vorbis: seek %d out of range [0, %d]", p, v.total)
	}
	i := sort.Search(len(v.marks), func(i int) bool { return v.marks[i].granule > int64(p) })
	offset, base := v.dataStart, 0
	if i > 0 {
		offset, base = v.marks[i-1].end, int(v.marks[i-1].granule)
	}
	if err := v.packets.reset(offset); err != nil {
		return err
	}
	if i == 0 {
		v.packets.discard = false
	}
	v.dec.Clear()
	v.buf, v.bufPos = nil, 0
	v.pos = p
	v.skip = p - base
	v.err = nil
	return nil
}

func (v *vorbisStreamer) Close() error {
	return v.rs.Close()
}
