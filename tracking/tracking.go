package tracking

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Kind identifies one of the tracker implementations
type Kind int

const (
	Boosting Kind = iota
	MIL
	KCF
	TLD
	MedianFlow
	MOSSE
	CSRT
	GOTURN
)

// indexed lists the trackers that can be selected by number, in order
var indexed = []Kind{Boosting, MIL, KCF, TLD, MedianFlow, MOSSE, CSRT}

var names = map[Kind]string{
	Boosting:   "BOOSTING",
	MIL:        "MIL",
	KCF:        "KCF",
	TLD:        "TLD",
	MedianFlow: "MEDIANFLOW",
	MOSSE:      "MOSSE",
	CSRT:       "CSRT",
	GOTURN:     "GOTURN",
}

// GOTURN model files, looked up in Options.ModelDir
const (
	GoturnPrototxt   = "goturn.prototxt"
	GoturnCaffeModel = "goturn.caffemodel"
)

var (
	ErrUnknownTracker = errors.New("unknown tracker")
	ErrUnavailable    = errors.New("tracker not available in this OpenCV binding")
	ErrModelMissing   = errors.New("goturn model could not be loaded")
	ErrInitFailed     = errors.New("tracker not initialized")
)

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Names returns the lower-case names of all trackers, selectable ones first
func Names() []string {
	out := make([]string, 0, len(names))
	for _, k := range append(append([]Kind{}, indexed...), GOTURN) {
		out = append(out, strings.ToLower(k.String()))
	}
	return out
}

// ParseKind resolves a tracker from an index (0-6) or a case-insensitive name
func ParseKind(sel string) (Kind, error) {
	s := strings.TrimSpace(sel)
	if i, err := strconv.Atoi(s); err == nil {
		if i >= 0 && i < len(indexed) {
			return indexed[i], nil
		}
		return 0, errors.Wrapf(ErrUnknownTracker, "index %d out of range [0-%d], available: %s", i, len(indexed)-1, strings.Join(Names(), ", "))
	}
	for k, n := range names {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownTracker, "%q, available: %s", sel, strings.Join(Names(), ", "))
}

// Available reports whether New can construct the kind
func Available(k Kind) bool {
	switch k {
	case MIL, KCF, CSRT, GOTURN:
		return true
	}
	return false
}

// Options configures tracker construction
type Options struct {
	ModelDir string
}

// Prototxt returns the GOTURN network definition path
func (o Options) Prototxt() string {
	return filepath.Join(o.ModelDir, GoturnPrototxt)
}

// CaffeModel returns the GOTURN weights path
func (o Options) CaffeModel() string {
	return filepath.Join(o.ModelDir, GoturnCaffeModel)
}

// Factory constructs a fresh tracker of the given kind
type Factory func(Kind) (gocv.Tracker, error)

// NewFactory returns a Factory bound to opts
func NewFactory(opts Options) Factory {
	return func(k Kind) (gocv.Tracker, error) {
		return New(k, opts)
	}
}

// New creates a tracker instance. The caller owns it and must Close it.
func New(k Kind, opts Options) (gocv.Tracker, error) {
	switch k {
	case MIL:
		return gocv.NewTrackerMIL(), nil
	case KCF:
		return contrib.NewTrackerKCF(), nil
	case CSRT:
		return contrib.NewTrackerCSRT(), nil
	case GOTURN:
		if err := CheckModels(opts.ModelDir); err != nil {
			return nil, err
		}
		return gocv.NewTrackerGOTURNWithParams(opts.CaffeModel(), opts.Prototxt()), nil
	case Boosting, TLD, MedianFlow, MOSSE:
		return nil, errors.Wrapf(ErrUnavailable, "%s (use one of mil, kcf, csrt, goturn)", k)
	}
	return nil, errors.Wrapf(ErrUnknownTracker, "kind %d", int(k))
}

// CheckModels verifies both GOTURN files are present and non-empty in dir
func CheckModels(dir string) error {
	for _, name := range []string{GoturnCaffeModel, GoturnPrototxt} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(ErrModelMissing, "%s: %v", path, err)
		}
		if !info.Mode().IsRegular() || info.Size() == 0 {
			return errors.Wrapf(ErrModelMissing, "%s is not a usable model file", path)
		}
	}
	return nil
}
