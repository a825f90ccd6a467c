package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// RecipeData is one externally-tagged recipe payload. Its wire shape is
// string identifier ∥ recipe id ∥ type-specific fields; only the type
// identifier is fixed, so each concrete type owns its own Encode/Decode.
type RecipeData interface {
	RecipeType() string
	Encode(w *protocol.Writer)
	Decode(r *protocol.Reader)
}

// recipeFactories maps a wire type identifier to a zero-value constructor,
// used by Recipe.Decode to allocate the right concrete type.
var recipeFactories = map[string]func() RecipeData{
	"minecraft:crafting_shapeless": func() RecipeData { return new(ShapelessRecipe) },
	"minecraft:crafting_shaped":    func() RecipeData { return new(ShapedRecipe) },
	"minecraft:smelting":           func() RecipeData { return new(SmeltingRecipe) },
	"minecraft:stonecutting":       func() RecipeData { return new(StonecuttingRecipe) },
}

// Ingredient is a list of item ids any of which satisfies one recipe slot.
type Ingredient struct {
	Items []ItemStack
}

func (i *Ingredient) encode(w *protocol.Writer) {
	w.VarInt32(int32(len(i.Items)))
	for idx := range i.Items {
		i.Items[idx].encode(w)
	}
}

func (i *Ingredient) decode(r *protocol.Reader) {
	n := r.VarInt32()
	i.Items = make([]ItemStack, n)
	for idx := range i.Items {
		i.Items[idx].decode(r)
	}
}

// ShapelessRecipe is a crafting recipe whose ingredients have no fixed grid
// position.
type ShapelessRecipe struct {
	Group       string
	Category    int32
	Ingredients []Ingredient
	Result      ItemStack
}

func (*ShapelessRecipe) RecipeType() string { return "minecraft:crafting_shapeless" }

func (p *ShapelessRecipe) Encode(w *protocol.Writer) {
	w.String(p.Group)
	w.VarInt32(p.Category)
	w.VarInt32(int32(len(p.Ingredients)))
	for i := range p.Ingredients {
		p.Ingredients[i].encode(w)
	}
	p.Result.encode(w)
}

func (p *ShapelessRecipe) Decode(r *protocol.Reader) {
	p.Group = r.String()
	p.Category = r.VarInt32()
	n := r.VarInt32()
	p.Ingredients = make([]Ingredient, n)
	for i := range p.Ingredients {
		p.Ingredients[i].decode(r)
	}
	p.Result.decode(r)
}

// ShapedRecipe is a crafting recipe whose ingredients occupy a fixed
// Width x Height grid, row-major in Ingredients.
type ShapedRecipe struct {
	Width, Height    int32
	Group            string
	Category         int32
	Ingredients      []Ingredient
	Result           ItemStack
	ShowNotification bool
}

func (*ShapedRecipe) RecipeType() string { return "minecraft:crafting_shaped" }

func (p *ShapedRecipe) Encode(w *protocol.Writer) {
	w.VarInt32(p.Width)
	w.VarInt32(p.Height)
	w.String(p.Group)
	w.VarInt32(p.Category)
	for i := range p.Ingredients {
		p.Ingredients[i].encode(w)
	}
	p.Result.encode(w)
	w.Bool(p.ShowNotification)
}

func (p *ShapedRecipe) Decode(r *protocol.Reader) {
	p.Width = r.VarInt32()
	p.Height = r.VarInt32()
	p.Group = r.String()
	p.Category = r.VarInt32()
	count := p.Width * p.Height
	p.Ingredients = make([]Ingredient, count)
	for i := range p.Ingredients {
		p.Ingredients[i].decode(r)
	}
	p.Result.decode(r)
	p.ShowNotification = r.Bool()
}

// SmeltingRecipe is a furnace-family recipe: one ingredient, one result,
// an experience yield, and a cook time in ticks.
type SmeltingRecipe struct {
	Group       string
	Category    int32
	Ingredient  Ingredient
	Result      ItemStack
	Experience  float32
	CookingTime int32
}

func (*SmeltingRecipe) RecipeType() string { return "minecraft:smelting" }

func (p *SmeltingRecipe) Encode(w *protocol.Writer) {
	w.String(p.Group)
	w.VarInt32(p.Category)
	p.Ingredient.encode(w)
	p.Result.encode(w)
	w.Float32(p.Experience)
	w.VarInt32(p.CookingTime)
}

func (p *SmeltingRecipe) Decode(r *protocol.Reader) {
	p.Group = r.String()
	p.Category = r.VarInt32()
	p.Ingredient.decode(r)
	p.Result.decode(r)
	p.Experience = r.Float32()
	p.CookingTime = r.VarInt32()
}

// StonecuttingRecipe is a single-ingredient, single-result recipe with no
// cook time, as used by the stonecutter block.
type StonecuttingRecipe struct {
	Group      string
	Ingredient Ingredient
	Result     ItemStack
}

func (*StonecuttingRecipe) RecipeType() string { return "minecraft:stonecutting" }

func (p *StonecuttingRecipe) Encode(w *protocol.Writer) {
	w.String(p.Group)
	p.Ingredient.encode(w)
	p.Result.encode(w)
}

func (p *StonecuttingRecipe) Decode(r *protocol.Reader) {
	p.Group = r.String()
	p.Ingredient.decode(r)
	p.Result.decode(r)
}

// Recipe is one externally-tagged entry of an UpdateRecipes packet: a type
// identifier, a recipe id, and a type-specific payload.
type Recipe struct {
	ID   string
	Data RecipeData
}

func (r *Recipe) encode(w *protocol.Writer) {
	w.String(r.Data.RecipeType())
	w.String(r.ID)
	r.Data.Encode(w)
}

func (r *Recipe) decode(rd *protocol.Reader) {
	typ := rd.String()
	r.ID = rd.String()
	factory, ok := recipeFactories[typ]
	if !ok {
		rd.Fail(ErrUnknownRecipeType)
		return
	}
	r.Data = factory()
	r.Data.Decode(rd)
}

// UpdateRecipes replaces the client's known recipe book with Recipes.
type UpdateRecipes struct {
	Recipes []Recipe
}

var _ Packet = (*UpdateRecipes)(nil)

func (*UpdateRecipes) ID() int32 { return 0x6C }

func (p *UpdateRecipes) Encode(w *protocol.Writer) {
	w.VarInt32(int32(len(p.Recipes)))
	for i := range p.Recipes {
		p.Recipes[i].encode(w)
	}
}

func (p *UpdateRecipes) Decode(r *protocol.Reader) {
	n := r.VarInt32()
	p.Recipes = make([]Recipe, n)
	for i := range p.Recipes {
		p.Recipes[i].decode(r)
	}
}
