package textfold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Muško", "musko"},
		{"Žensko", "zensko"},
		{"Ležanje", "lezanje"},
		{"Godina rođenja", "godina rodjenja"},
		{"ĐORĐE", "djordje"},
		{"Čačak Ćuprija", "cacak cuprija"},
		{"Džemper", "dzemper"},
		{"Šabac", "sabac"},
		{"Stand/Sit", "stand/sit"},
		{"", ""},
		// Only the five Serbian letter families are folded.
		{"Müller", "müller"},
		{"café", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Muško", "musko"))
	assert.True(t, Matches("LEŽANJE", "Lezanje"))
	assert.True(t, Matches("male", "Male"))
	assert.False(t, Matches("Male", "Female"))
	assert.False(t, Matches("Male ", "Male"))
}

func TestHasPrefix(t *testing.T) {
	header := "Ime,Prezime,Godina rodjenja,Pol,Visina/cm,Tezina/kg,Email,Broj telefona"

	assert.True(t, HasPrefix(header+",Sistolni prag,Diastolni prag,ID,Doktor,Datum", header))
	assert.True(t, HasPrefix("IME,PREZIME,Godina rođenja,Pol,Visina/cm,Težina/kg,Email,Broj telefona", header))
	assert.False(t, HasPrefix("Ime,Prezime", header))
	assert.True(t, HasPrefix("anything", ""))
}
