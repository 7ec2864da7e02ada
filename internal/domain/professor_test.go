package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitleLevel(t *testing.T) {
	level, err := ParseTitleLevel("硕士")
	require.NoError(t, err)
	assert.Equal(t, TitleMaster, level)

	level, err = ParseTitleLevel("4")
	require.NoError(t, err)
	assert.Equal(t, TitleDoctor, level)

	_, err = ParseTitleLevel("5")
	assert.Error(t, err)

	_, err = ParseTitleLevel("教授")
	assert.Error(t, err)
}

func TestTitleLevel_String(t *testing.T) {
	assert.Equal(t, "中等教育", TitleSecondary.String())
	assert.Equal(t, "博士", TitleDoctor.String())
	assert.Equal(t, "未知", TitleLevel(9).String())
	assert.True(t, TitleSpecialist > TitleGraduate)
}
