package services

import "fmt"

// Taxonomie des erreurs métier. Toutes portent un message lisible destiné
// au client ; aucune n'est réessayée automatiquement.

// ErreurIntrouvable signale qu'une entité référencée n'existe pas (→ 404)
type ErreurIntrouvable struct {
	Message string
}

func (e *ErreurIntrouvable) Error() string { return e.Message }

// ErreurValidation signale une entrée mal formée : date requise absente,
// ordre de dates invalide, etc. (→ 400)
type ErreurValidation struct {
	Message string
}

func (e *ErreurValidation) Error() string { return e.Message }

// ErreurConflit signale une opération incompatible avec l'état courant de
// l'entité : anomalie déjà résolue, maintenance déjà liée... (→ 409 en CRUD,
// 400 sur les routes workflow)
type ErreurConflit struct {
	Message string
}

func (e *ErreurConflit) Error() string { return e.Message }

// Introuvable construit une ErreurIntrouvable formatée
func Introuvable(format string, args ...interface{}) error {
	return &ErreurIntrouvable{Message: fmt.Sprintf(format, args...)}
}

// Invalide construit une ErreurValidation formatée
func Invalide(format string, args ...interface{}) error {
	return &ErreurValidation{Message: fmt.Sprintf(format, args...)}
}

// Conflit construit une ErreurConflit formatée
func Conflit(format string, args ...interface{}) error {
	return &ErreurConflit{Message: fmt.Sprintf(format, args...)}
}

// EstIntrouvable indique si err relève de la catégorie "introuvable"
func EstIntrouvable(err error) bool {
	_, ok := err.(*ErreurIntrouvable)
	return ok
}

// EstValidation indique si err relève de la catégorie "validation"
func EstValidation(err error) bool {
	_, ok := err.(*ErreurValidation)
	return ok
}

// EstConflit indique si err relève de la catégorie "conflit"
func EstConflit(err error) bool {
	_, ok := err.(*ErreurConflit)
	return ok
}
