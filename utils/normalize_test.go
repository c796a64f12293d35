package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCompanyKey(t *testing.T) {
	t.Run("corporate suffixes collapse", func(t *testing.T) {
		base := NormalizeCompanyKey("알파테크")
		assert.NotEmpty(t, base)
		assert.Equal(t, base, NormalizeCompanyKey("(주)알파테크"))
		assert.Equal(t, base, NormalizeCompanyKey("㈜알파테크"))
		assert.Equal(t, base, NormalizeCompanyKey("주식회사 알파테크"))
	})

	t.Run("whitespace and case collapse", func(t *testing.T) {
		base := NormalizeCompanyKey("AlphaTech")
		assert.Equal(t, base, NormalizeCompanyKey("  alpha tech  "))
		assert.Equal(t, base, NormalizeCompanyKey("ALPHA\tTECH"))
	})

	t.Run("full width forms collapse", func(t *testing.T) {
		// NFKC folds full-width latin into ASCII
		assert.Equal(t, NormalizeCompanyKey("ＡＢＣ"), NormalizeCompanyKey("abc"))
	})

	t.Run("distinct names stay distinct", func(t *testing.T) {
		assert.NotEqual(t, NormalizeCompanyKey("알파테크"), NormalizeCompanyKey("베타소프트"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeCompanyKey(""))
	})
}
