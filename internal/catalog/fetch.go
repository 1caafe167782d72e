// Package catalog loads supplier price lists into the package-variant
// catalog. Lists arrive as XLSX files, either on disk or published on a
// supplier's HTTP or FTP server.
package catalog

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher downloads price-list files from supplier servers.
type Fetcher struct {
	timeout time.Duration
	client  *http.Client
}

// NewFetcher creates a Fetcher. A zero timeout defaults to 30s.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch downloads rawURL into dir and returns the local file path. The
// scheme selects the transport: http(s) or ftp.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "catalog: parse url")
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", eris.Errorf("catalog: no file name in %s", rawURL)
	}
	dest := path.Join(dir, name)

	var rc io.ReadCloser
	switch u.Scheme {
	case "http", "https":
		rc, err = f.openHTTP(ctx, rawURL)
	case "ftp":
		rc, err = f.openFTP(ctx, u)
	default:
		return "", eris.Errorf("catalog: unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return "", err
	}
	defer rc.Close()

	file, err := os.Create(dest)
	if err != nil {
		return "", eris.Wrap(err, "catalog: create file")
	}
	defer file.Close()

	n, err := io.Copy(file, rc)
	if err != nil {
		return "", eris.Wrap(err, "catalog: write file")
	}
	zap.L().Info("price list downloaded",
		zap.String("url", rawURL),
		zap.String("dest", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

func (f *Fetcher) openHTTP(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: create request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: download")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, eris.Errorf("catalog: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}

func (f *Fetcher) openFTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "21")
	}

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(f.timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "catalog: ftp dial")
	}

	user, pass := "anonymous", "anonymous@"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		return nil, eris.Wrap(err, "catalog: ftp login")
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		conn.Quit()
		return nil, eris.Wrap(err, "catalog: ftp retrieve")
	}
	return &ftpConnReader{resp: resp, conn: conn}, nil
}

// ftpConnReader ties the FTP data connection to the reader so closing the
// reader also quits the control connection.
type ftpConnReader struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (r *ftpConnReader) Read(p []byte) (int, error) {
	return r.resp.Read(p)
}

func (r *ftpConnReader) Close() error {
	respErr := r.resp.Close()
	quitErr := r.conn.Quit()
	if respErr != nil {
		return eris.Wrap(respErr, "catalog: close ftp response")
	}
	if quitErr != nil {
		return eris.Wrap(quitErr, "catalog: quit ftp connection")
	}
	return nil
}
