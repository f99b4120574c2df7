package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
)

// Loader implements jsonschema.Loader by delegating to file, fs.FS, or HTTP
// strategies. The openapi loader contract has the same shape, so a single
// instance serves both adapters.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	log       *slog.Logger
}

// Ensure the implementation satisfies the public interface.
var _ jsonschema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options. A nil logger falls back
// to slog.Default.
func New(options jsonschema.LoaderOptions, log *slog.Logger) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	if log == nil {
		log = slog.Default()
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		log:       log.With("component", "loader"),
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src jsonschema.Source) (jsonschema.Document, error) {
	if src == nil {
		return jsonschema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case jsonschema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case jsonschema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case jsonschema.SourceKindURL:
		if !l.allowHTTP {
			return jsonschema.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		l.log.DebugContext(ctx, "schema load failed",
			"kind", string(src.Kind()), "location", src.Location(), "error", err)
		return jsonschema.Document{}, err
	}

	l.log.DebugContext(ctx, "schema loaded",
		"kind", string(src.Kind()), "location", src.Location(), "bytes", len(data))
	return jsonschema.NewDocument(src, data)
}
