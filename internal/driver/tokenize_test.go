package driver_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfmt/internal/driver"
	"cfmt/internal/lexer"
	"cfmt/internal/token"
)

func TestTokenize(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "int x; /* c */\n"})
	res, err := driver.Tokenize(filepath.Join(root, "a.c"), 16)
	require.NoError(t, err)
	require.NotNil(t, res.Lexer)

	var kinds []token.Kind
	for _, tk := range res.Lexer.Tokens() {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{token.KwInt, token.Ident, token.Semi, token.EOF}, kinds)
	assert.False(t, res.Bag.HasErrors())
}

func TestTokenizeUnknown(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "a @ b\n"})
	res, err := driver.Tokenize(filepath.Join(root, "a.c"), 16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lexer.ErrUnknownToken))
	assert.True(t, res.Bag.HasErrors())
}

func TestBuildDoc(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "int f(void){return 0;}\n"})
	res, err := driver.BuildDoc(filepath.Join(root, "a.c"), nil, 16)
	require.NoError(t, err)
	require.NotNil(t, res.Doc)
	assert.False(t, res.Parse.Verbatim)
	assert.Equal(t, 80, res.Style.ColumnLimit)
}
