package rest

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// readBody reads and decompresses the response. The identity headers set
// Accept-Encoding explicitly, which turns off the transport's own gzip
// handling, so decoding happens here.
func readBody(resp *http.Response) ([]byte, error) {
	reader, err := decodingReader(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

func decodingReader(encoding string, body io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("open gzip body: %w", err)
		}
		return zr, nil
	case "deflate":
		br := bufio.NewReader(body)
		if hasZlibHeader(br) {
			zr, err := zlib.NewReader(br)
			if err != nil {
				return nil, fmt.Errorf("open zlib body: %w", err)
			}
			return zr, nil
		}
		return flate.NewReader(br), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// hasZlibHeader reports whether the stream starts with an RFC 1950 header.
// Some servers send raw deflate for "deflate" despite the RFC.
func hasZlibHeader(br *bufio.Reader) bool {
	head, err := br.Peek(2)
	if err != nil {
		return false
	}
	cmf, flg := head[0], head[1]
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
