package parser

import (
	"crypto/md5"
	"encoding/hex"
)

// ID derives the StringID of a string from the file it lives in and its
// content key, e.g. "app.po:1dafea7725862ca854c408f0e2df9c88".
func ID(fileName, key string) string {
	return fileName + ":" + digest(key)
}

// UnitID derives the StringID of an XML translation unit from the original
// attribute of its container element and the unit id, e.g.
// "firefox-ios.xliff/menu.title:1dafea7725862ca854c408f0e2df9c88".
func UnitID(fileName, original, unit string) string {
	return fileName + "/" + unit + ":" + digest(original+unit)
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
