package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akbarifar/mro-estimator/internal/catalog"
)

func TestParseSelection(t *testing.T) {
	cases := []struct {
		answer string
		want   []int
		ok     bool
	}{
		{answer: "1", want: []int{0}, ok: true},
		{answer: "3, 1", want: []int{2, 0}, ok: true},
		{answer: "2,2,1", want: []int{1, 0}, ok: true},
		{answer: "1,,2,", want: []int{0, 1}, ok: true},
		{answer: "", ok: false},
		{answer: "0", ok: false},
		{answer: "4", ok: false},
		{answer: "1,x", ok: false},
	}

	for _, tc := range cases {
		got, ok := parseSelection(tc.answer, 3)
		require.Equal(t, tc.ok, ok, "answer=%q", tc.answer)
		if tc.ok {
			require.Equal(t, tc.want, got, "answer=%q", tc.answer)
		}
	}
}

func TestPrompterConfirm(t *testing.T) {
	out := &bytes.Buffer{}
	p := newPrompter(strings.NewReader("Y\nno\n"), out)

	yes, err := p.confirm("Use full series? (y/n): ")
	require.NoError(t, err)
	require.True(t, yes)

	yes, err = p.confirm("Use full series? (y/n): ")
	require.NoError(t, err)
	require.False(t, yes)

	_, err = p.confirm("again? ")
	require.ErrorIs(t, err, errInputClosed)
}

func TestPrompterChooseWithoutOptions(t *testing.T) {
	out := &bytes.Buffer{}
	p := newPrompter(strings.NewReader("1\n"), out)

	_, err := p.choose("Select Engine Model: ", nil)
	require.ErrorIs(t, err, catalog.ErrNoResults)

	_, err = p.chooseMany("Select Parts (comma-separated): ", []string{})
	require.ErrorIs(t, err, catalog.ErrNoResults)
	require.Empty(t, out.String(), "no prompt should be shown")
}
