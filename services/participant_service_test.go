package services

import (
	"testing"

	"meetup-matching-system/utils"

	"github.com/stretchr/testify/assert"
)

func TestBuildParticipantsFromRows(t *testing.T) {
	rows := utils.ParseCSV(
		"참석자 성함(직위),기업명,이메일 주소,기업 구분\n" +
			"김철수(대표),알파테크,Kim@Alpha.com,a\n" +
			"이영희,베타소프트,,b\n" +
			",누락된이름,x@y.com,a\n" +
			"박민준,,x@y.com,\n",
	)

	participants := BuildParticipantsFromRows(3, rows)

	if !assert.Len(t, participants, 2, "rows without name+company are skipped") {
		return
	}

	first := participants[0]
	assert.Equal(t, uint(3), first.EventID)
	assert.Equal(t, "김철수", first.Name, "trailing title parenthetical stripped")
	assert.Equal(t, "알파테크", first.Company)
	assert.Equal(t, "A", first.GroupType)
	if assert.NotNil(t, first.Email) {
		assert.Equal(t, "kim@alpha.com", *first.Email)
	}
	assert.NotEmpty(t, first.AccessToken)
	assert.NotContains(t, first.AccessToken, "-")

	second := participants[1]
	assert.Equal(t, "이영희", second.Name)
	assert.Equal(t, "B", second.GroupType)
	assert.Nil(t, second.Email)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}

func TestBuildParticipantsFromRows_TabDelimited(t *testing.T) {
	rows := utils.ParseCSV("이름\t기업명\t이메일\n홍길동\t감마디자인\thong@gamma.com\n")

	participants := BuildParticipantsFromRows(1, rows)

	if assert.Len(t, participants, 1) {
		assert.Equal(t, "홍길동", participants[0].Name)
		assert.Equal(t, "감마디자인", participants[0].Company)
		if assert.NotNil(t, participants[0].Email) {
			assert.Equal(t, "hong@gamma.com", *participants[0].Email)
		}
	}
}

func TestBuildParticipantsFromRows_CompanySubstringFallback(t *testing.T) {
	// with no exact company header, the alias "기업" resolves through the
	// substring stage against whatever 기업-ish column is populated — here
	// the group column. The drifting sheets rely on this looseness, so the
	// behavior is pinned rather than guarded against.
	rows := utils.ParseCSV("이름,기업 구분\n박민준,b\n")

	participants := BuildParticipantsFromRows(1, rows)
	if assert.Len(t, participants, 1) {
		assert.Equal(t, "b", participants[0].Company)
	}
}

func TestBuildParticipantsFromRows_DefaultsGroupToA(t *testing.T) {
	rows := utils.ParseCSV("이름,기업명\n홍길동,감마디자인\n")

	participants := BuildParticipantsFromRows(1, rows)
	if assert.Len(t, participants, 1) {
		assert.Equal(t, "A", participants[0].GroupType)
	}
}
