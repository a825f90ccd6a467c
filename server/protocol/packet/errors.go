package packet

import "errors"

// ErrUnknownEntityDataType is returned by DecodeEntityData when a slot's
// type id does not name one of the registered EntityDataValue kinds.
var ErrUnknownEntityDataType = errors.New("packet: unknown entity data type")

// ErrUnknownPacketID is returned by a dispatch table when an id has no
// registered packet for the current (state, direction).
var ErrUnknownPacketID = errors.New("packet: unknown packet id")

// ErrUnknownRecipeType is returned by Recipe.decode when a recipe entry's
// type identifier has no registered RecipeData factory.
var ErrUnknownRecipeType = errors.New("packet: unknown recipe type")
