package main

import "github.com/tesseract-mc/tesseract/server/nbt"

// buildRegistryCodec assembles the minimal "minecraft:dimension_type" and
// "minecraft:worldgen/biome" registry holder the Login packet's
// RegistryCodec field carries: one overworld-shaped dimension type and one
// plains biome entry, enough for a client to resolve the single dimension
// this server exposes.
func buildRegistryCodec() *nbt.Compound {
	codec := nbt.NewCompound()
	codec.PutCompound("minecraft:dimension_type", registryHolder("minecraft:dimension_type", overworldDimensionType()))
	codec.PutCompound("minecraft:worldgen/biome", registryHolder("minecraft:worldgen/biome", plainsBiome()))
	return codec
}

func registryHolder(registryName string, element *nbt.Compound) *nbt.Compound {
	entry := nbt.NewCompound()
	entry.PutString("name", registryName+"/overworld")
	entry.PutInt("id", 0)
	entry.PutCompound("element", element)

	holder := nbt.NewCompound()
	holder.PutString("type", registryName)
	holder.PutList("value", &nbt.List{Elem: nbt.TagCompound, Values: []any{entry}})
	return holder
}

func overworldDimensionType() *nbt.Compound {
	c := nbt.NewCompound()
	c.PutByte("piglin_safe", 0)
	c.PutByte("natural", 1)
	c.PutFloat("ambient_light", 0)
	c.PutLong("fixed_time", 0)
	c.PutByte("has_skylight", 1)
	c.PutByte("has_ceiling", 0)
	c.PutByte("ultrawarm", 0)
	c.PutByte("has_raids", 1)
	c.PutInt("min_y", -64)
	c.PutInt("height", 384)
	c.PutInt("logical_height", 384)
	c.PutDouble("coordinate_scale", 1)
	c.PutString("infiniburn", "#minecraft:infiniburn_overworld")
	c.PutString("effects", "minecraft:overworld")
	c.PutInt("monster_spawn_block_light_limit", 0)
	c.PutInt("monster_spawn_light_level", 7)
	return c
}

func plainsBiome() *nbt.Compound {
	c := nbt.NewCompound()
	c.PutString("precipitation", "rain")
	c.PutFloat("temperature", 0.8)
	c.PutFloat("downfall", 0.4)

	effects := nbt.NewCompound()
	effects.PutInt("sky_color", 7907327)
	effects.PutInt("water_color", 4159204)
	effects.PutInt("water_fog_color", 329011)
	effects.PutInt("fog_color", 12638463)
	c.PutCompound("effects", effects)
	return c
}
