package unit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{in: "omo", want: OMO},
		{in: "OMO", want: OMO},
		{in: " Omo ", want: OMO},
		{in: "bureau_3", want: NewBureau(3)},
		{in: "bureau_42", want: NewBureau(42)},
		{in: "expert_5", want: NewExpert(5)},
		{in: "bureau_0", wantErr: true},
		{in: "bureau_-1", wantErr: true},
		{in: "bureau_03", wantErr: true},
		{in: "bureau_", wantErr: true},
		{in: "expert_x", wantErr: true},
		{in: "Bureau_3", wantErr: true},
		{in: "all", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnit_StringAndLabel(t *testing.T) {
	assert.Equal(t, "omo", OMO.String())
	assert.Equal(t, "omo", OMO.Label())
	assert.Equal(t, "bureau_7", NewBureau(7).String())
	assert.Equal(t, "Бюро №7", NewBureau(7).Label())
	assert.Equal(t, "expert_2", NewExpert(2).String())
	assert.Equal(t, "ЭС №2", NewExpert(2).Label())
}

func TestUnit_TextRoundTrip(t *testing.T) {
	var u Unit
	require.NoError(t, u.UnmarshalText([]byte("expert_9")))
	assert.Equal(t, NewExpert(9), u)

	b, err := u.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "expert_9", string(b))

	assert.Error(t, u.UnmarshalText([]byte("nope")))
}

func TestNewDirectory(t *testing.T) {
	d, err := NewDirectory(6, []int{2, 5}, []int{3, 1})
	require.NoError(t, err)

	assert.Equal(t, []Unit{NewBureau(1), NewBureau(3), NewBureau(4), NewBureau(6)}, d.Bureaus())
	assert.Equal(t, []Unit{NewExpert(3), NewExpert(1)}, d.Experts())
	assert.Len(t, d.All(), 7)
	assert.Equal(t, OMO, d.All()[0])

	assert.True(t, d.Contains(OMO))
	assert.True(t, d.Contains(NewBureau(4)))
	assert.False(t, d.Contains(NewBureau(5)))
	assert.False(t, d.Contains(NewExpert(2)))
}

func TestNewDirectory_Invalid(t *testing.T) {
	_, err := NewDirectory(-1, nil, nil)
	assert.Error(t, err)

	_, err = NewDirectory(3, nil, []int{1, 1})
	assert.Error(t, err)

	_, err = NewDirectory(3, nil, []int{0})
	assert.Error(t, err)
}

func TestDirectory_ClonesSlices(t *testing.T) {
	d, err := NewDirectory(2, nil, []int{1})
	require.NoError(t, err)

	b := d.Bureaus()
	b[0] = NewBureau(99)
	assert.Equal(t, NewBureau(1), d.Bureaus()[0])
}
