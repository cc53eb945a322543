package testutil

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path"
	"runtime"
	"testing"
)

func MustFixture(absPath string) []byte {
	bytes, err := ioutil.ReadFile(absPath)
	if err != nil {
		panic(fmt.Sprintf("error loading fixture %s: %v", absPath, err))
	}

	return bytes
}

// Fixture returns the contents of a file under the testdata directory at the
// root of the repository.
func Fixture(t *testing.T, relPath string) []byte {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("error loading caller")
	}

	p := path.Join(path.Dir(filename), "../../", "testdata", relPath)

	bytes, err := ioutil.ReadFile(p)
	if err != nil {
		t.Fatalf("error loading fixture %s: %v", p, err)
	}

	return bytes
}

// Tree decodes a fixture into a generic JSON tree.
func Tree(t *testing.T, relPath string) interface{} {
	t.Helper()

	return MustDecode(t, string(Fixture(t, relPath)))
}

// MustDecode decodes an inline JSON document into a generic tree.
func MustDecode(t *testing.T, doc string) interface{} {
	t.Helper()

	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("error decoding document: %v", err)
	}

	return v
}
