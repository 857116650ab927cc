package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/itemserial"
	"github.com/zoobzio/itemserial/bson"
	"github.com/zoobzio/itemserial/cbor"
	"github.com/zoobzio/itemserial/json"
	"github.com/zoobzio/itemserial/msgpack"
	"github.com/zoobzio/itemserial/xml"
	"github.com/zoobzio/itemserial/yaml"
)

// codecs maps catalog format names to codec constructors.
var codecs = map[string]func() itemserial.Codec{
	"json":    json.New,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"xml":     xml.New,
	"bson":    bson.New,
	"cbor":    cbor.New,
}

func codecFor(format string) (itemserial.Codec, error) {
	newCodec, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown catalog format %q (want one of %s)",
			itemserial.ErrMissingCodec, format, strings.Join(formatNames(), ", "))
	}
	return newCodec(), nil
}

func formatNames() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
