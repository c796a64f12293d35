package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	rows := ParseCSV("이름,기업명\n홍길동,알파테크\n김철수,베타소프트\n")

	if !assert.Len(t, rows, 2) {
		return
	}
	assert.Equal(t, "홍길동", rows[0]["이름"])
	assert.Equal(t, "베타소프트", rows[1]["기업명"])
}

func TestParseCSV_TabSniffing(t *testing.T) {
	rows := ParseCSV("이름\t기업명\n홍길동\t알파, 테크\n")

	if assert.Len(t, rows, 1) {
		// the comma inside the value is data, not a delimiter
		assert.Equal(t, "알파, 테크", rows[0]["기업명"])
	}
}

func TestParseCSV_QuotedFields(t *testing.T) {
	rows := ParseCSV("name,company\n\"Kim, CEO\",\"Say \"\"hi\"\"\"\n")

	if assert.Len(t, rows, 1) {
		assert.Equal(t, "Kim, CEO", rows[0]["name"])
		assert.Equal(t, `Say "hi"`, rows[0]["company"])
	}
}

func TestParseCSV_SkipsEmptyRows(t *testing.T) {
	rows := ParseCSV("a,b\n\n1,2\n,\n\r\n3,4\n")

	assert.Len(t, rows, 2)
}

func TestParseCSV_Empty(t *testing.T) {
	assert.Nil(t, ParseCSV(""))
	assert.Nil(t, ParseCSV("\n\n"))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "참석자성함직위", NormalizeHeader("참석자 성함(직위)"))
	assert.Equal(t, "e-mail", NormalizeHeader("  E-Mail  "))
	assert.Equal(t, "company", NormalizeHeader("Company"))
}

func TestFindField(t *testing.T) {
	t.Run("exact header", func(t *testing.T) {
		row := map[string]string{"이메일": "a@x.com"}
		assert.Equal(t, "a@x.com", FindField(row, "이메일"))
	})

	t.Run("normalized header", func(t *testing.T) {
		row := map[string]string{"참석자 성함 (직위)": "홍길동"}
		assert.Equal(t, "홍길동", FindField(row, "참석자 성함(직위)"))
	})

	t.Run("substring match", func(t *testing.T) {
		row := map[string]string{"담당자 이메일 주소": "a@x.com"}
		assert.Equal(t, "a@x.com", FindField(row, "이메일 주소"))
	})

	t.Run("keyword set match", func(t *testing.T) {
		// word order differs and the underscore keeps the pattern's tokens
		// separable, so only the keyword stage can hit
		row := map[string]string{"Type of Business": "제조업"}
		assert.Equal(t, "제조업", FindField(row, "business_type"))
	})

	t.Run("earlier pattern wins", func(t *testing.T) {
		row := map[string]string{"이름": "홍길동", "담당자": "김철수"}
		assert.Equal(t, "홍길동", FindField(row, "이름", "담당자"))
	})

	t.Run("miss returns empty", func(t *testing.T) {
		row := map[string]string{"전혀다른것": "x"}
		assert.Equal(t, "", FindField(row, "이메일"))
	})

	t.Run("empty values are skipped", func(t *testing.T) {
		row := map[string]string{"이메일": "", "이메일 주소": "b@y.com"}
		assert.Equal(t, "b@y.com", FindField(row, "이메일", "이메일 주소"))
	})
}

func TestStripTitleSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"홍길동(대표)", "홍길동"},
		{"홍길동 (팀장) ", "홍길동"},
		{"홍길동", "홍길동"},
		{"  홍길동  ", "홍길동"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTitleSuffix(tt.in), "input %q", tt.in)
	}
}
