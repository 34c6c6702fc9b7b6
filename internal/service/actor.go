package service

import "kidsmoney/internal/models"

// Actor is the authenticated caller a service acts for. A parent actor may touch
// any of their kids; a kid actor is additionally pinned to their own records.
type Actor struct {
	ParentID string
	KidID    string
}

// ParentActor builds an actor for a parent account
func ParentActor(userID string) Actor {
	return Actor{ParentID: userID}
}

// KidActor builds an actor for a kid acting under parentID
func KidActor(kidID, parentID string) Actor {
	return Actor{ParentID: parentID, KidID: kidID}
}

// IsKid reports whether the actor is a kid
func (a Actor) IsKid() bool {
	return a.KidID != ""
}

// canSee reports whether the actor may read or act on records of the kid
// identified by kidID and parentID.
func (a Actor) canSee(kidID, parentID string) bool {
	if parentID != a.ParentID {
		return false
	}
	return a.KidID == "" || a.KidID == kidID
}

func (a Actor) ownsKid(kid *models.Kid) bool {
	return kid != nil && a.canSee(kid.ID, kid.ParentID)
}
