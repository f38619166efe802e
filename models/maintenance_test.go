package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPiecesRemplacees_TableauDeChaines(t *testing.T) {
	var pieces PiecesRemplacees
	require.NoError(t, json.Unmarshal([]byte(`["roulement 6205","joint torique"]`), &pieces))
	assert.Equal(t, []string{"roulement 6205", "joint torique"}, pieces.Liste)
	assert.Nil(t, pieces.Brut)

	restitue, err := json.Marshal(pieces)
	require.NoError(t, err)
	assert.JSONEq(t, `["roulement 6205","joint torique"]`, string(restitue))
}

func TestPiecesRemplacees_FormeLibre(t *testing.T) {
	// Le front historique envoie parfois un objet au lieu d'un tableau :
	// la forme d'origine doit être conservée telle quelle
	charge := `{"roulement 6205": 2, "joint torique": 1}`
	var pieces PiecesRemplacees
	require.NoError(t, json.Unmarshal([]byte(charge), &pieces))
	assert.Nil(t, pieces.Liste)
	assert.NotNil(t, pieces.Brut)

	restitue, err := json.Marshal(pieces)
	require.NoError(t, err)
	assert.JSONEq(t, charge, string(restitue))
}

func TestPiecesRemplacees_ValueEtScan(t *testing.T) {
	pieces := PiecesRemplacees{Liste: []string{"anode sacrificielle"}}

	valeur, err := pieces.Value()
	require.NoError(t, err)

	var relues PiecesRemplacees
	require.NoError(t, relues.Scan(valeur))
	assert.Equal(t, pieces.Liste, relues.Liste)

	// Une valeur vide se stocke en NULL et se relit vide
	videValeur, err := PiecesRemplacees{}.Value()
	require.NoError(t, err)
	assert.Nil(t, videValeur)

	var vide PiecesRemplacees
	require.NoError(t, vide.Scan(nil))
	assert.True(t, vide.EstVide())
}

func TestMaintenance_EstTerminale(t *testing.T) {
	assert.False(t, (&Maintenance{Statut: StatutMaintenancePlanifiee}).EstTerminale())
	assert.False(t, (&Maintenance{Statut: StatutMaintenanceEnCours}).EstTerminale())
	assert.True(t, (&Maintenance{Statut: StatutMaintenanceTerminee}).EstTerminale())
	assert.True(t, (&Maintenance{Statut: StatutMaintenanceAnnulee}).EstTerminale())
}
