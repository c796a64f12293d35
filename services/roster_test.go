package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoster(t *testing.T) {
	csvText := "이메일,기업명\n" +
		"Lead@Acme.com,알파테크\n" +
		"b@beta.com,베타소프트\n" +
		",누락된이메일\n" +
		"c@gamma.com,\n"

	roster := ParseRoster(csvText)

	assert.Len(t, roster.EmailToCompany, 2, "rows missing either column are skipped")

	company, ok := roster.CompanyForEmail("lead@acme.com")
	assert.True(t, ok)
	assert.Equal(t, "알파테크", company)

	// lookup input is case/space insensitive
	company, ok = roster.CompanyForEmail("  LEAD@ACME.COM ")
	assert.True(t, ok)
	assert.Equal(t, "알파테크", company)

	email, ok := roster.EmailForCompany("베타소프트")
	assert.True(t, ok)
	assert.Equal(t, "b@beta.com", email)

	assert.True(t, roster.IsValidCompany("알파테크"))
	assert.False(t, roster.IsValidCompany("없는기업"))
}

func TestParseRoster_AlternativeHeaders(t *testing.T) {
	roster := ParseRoster("사용자 이름,멘토명\na@x.com,감마디자인\n")

	company, ok := roster.CompanyForEmail("a@x.com")
	assert.True(t, ok)
	assert.Equal(t, "감마디자인", company)
}

func TestParseRoster_TabDelimited(t *testing.T) {
	roster := ParseRoster("이메일\t기업명\na@x.com\t알파테크\n")

	company, ok := roster.CompanyForEmail("a@x.com")
	assert.True(t, ok)
	assert.Equal(t, "알파테크", company)
}

func TestParseRoster_MissingHeaderDisablesRoster(t *testing.T) {
	roster := ParseRoster("뭔가,다른거\na@x.com,알파테크\n")

	assert.Empty(t, roster.EmailToCompany)
	_, ok := roster.CompanyForEmail("a@x.com")
	assert.False(t, ok)
	assert.False(t, roster.IsValidCompany("알파테크"))
}

func TestParseRoster_Empty(t *testing.T) {
	roster := ParseRoster("")
	assert.NotNil(t, roster)
	assert.Empty(t, roster.EmailToCompany)
}

func TestNormalizedCompanyMatching(t *testing.T) {
	roster := ParseRoster("이메일,기업명\na@x.com,(주)알파테크\n")

	// the legal-entity prefix and spacing differences collapse to one key
	email, ok := roster.EmailForCompany("알파테크")
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", email)

	email, ok = roster.EmailForCompany(" 알파 테크 ")
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", email)
}
