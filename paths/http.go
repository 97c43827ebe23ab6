package paths

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	cache     map[string][]byte
	cacheLock sync.Mutex

	// Client fetches URLs passed to Open.
	Client = http.DefaultClient
)

// openHTTP fetches url once and serves later opens from memory.
func openHTTP(url string) (io.ReadSeekCloser, error) {
	cacheLock.Lock()
	defer cacheLock.Unlock()

	if cache == nil {
		cache = make(map[string][]byte)
	}
	if b, ok := cache[url]; ok {
		glog.V(2).Infof("paths: %q served from cache", url)
		return &bytesReaderWithDummyClose{bytes.NewReader(b)}, nil
	}

	glog.V(1).Infof("paths: fetching %q", url)
	response, err := Client.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %q", url)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "fetching %q: http status %v, want 200", url, response.StatusCode)
	}

	b, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "copying response to seekable buffer")
	}
	cache[url] = b
	return &bytesReaderWithDummyClose{bytes.NewReader(b)}, nil
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
