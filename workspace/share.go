// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package workspace

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// shareParam is the query parameter that carries shared content.
const shareParam = "json"

// maxShareSize bounds the decompressed size of shared content.
const maxShareSize = 16 << 20

var shareEncoder, shareDecoder = newShareCoders()

// newShareCoders constructs the compressors for share links. Construction
// fails only if the options are invalid.
func newShareCoders() (*zstd.Encoder, *zstd.Decoder) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		panic(fmt.Sprintf("create zstd encoder: %v", err))
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxShareSize))
	if err != nil {
		panic(fmt.Sprintf("create zstd decoder: %v", err))
	}
	return enc, dec
}

// ShareURL returns a link to base that carries content in its query. If
// content is blank, base is returned unchanged.
//
// The content is compressed and encoded as unpadded URL-safe base64, and
// stored in the "json" parameter. Use FromShareURL to recover it.
func ShareURL(base, content string) string {
	if strings.TrimSpace(content) == "" {
		return base
	}
	token := base64.RawURLEncoding.EncodeToString(shareEncoder.EncodeAll([]byte(content), nil))
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + shareParam + "=" + token
	}
	q := u.Query()
	q.Set(shareParam, token)
	u.RawQuery = q.Encode()
	return u.String()
}

// FromShareURL recovers the content from a link constructed by ShareURL.
// It reports false if raw has no content, or the content is malformed.
func FromShareURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	token := u.Query().Get(shareParam)
	if token == "" {
		return "", false
	}
	packed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	data, err := shareDecoder.DecodeAll(packed, nil)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}
