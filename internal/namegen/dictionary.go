package namegen

// dictionary feeds the dictionary strategy. Bland, plausible words so
// generated names blend into ordinary code instead of standing out as
// line noise.
var dictionary = []string{
	"alpha", "amber", "anchor", "apex", "arch", "atlas", "aura",
	"badge", "basin", "beacon", "birch", "blade", "bloom", "bolt",
	"brook", "cedar", "chart", "cliff", "cloud", "coral", "crest",
	"delta", "drift", "dune", "echo", "ember", "fable", "fern",
	"flint", "forge", "frost", "gale", "glen", "grove", "harbor",
	"haven", "hollow", "icon", "ivory", "jade", "keel", "knoll",
	"lagoon", "lumen", "marsh", "mason", "meadow", "mirth", "north",
	"oasis", "onyx", "opal", "orbit", "pike", "pine", "plume",
	"prism", "quartz", "quill", "ravine", "reef", "ridge", "river",
	"sable", "sage", "shard", "shoal", "slate", "spruce", "summit",
	"thorn", "tide", "timber", "trail", "umber", "vale", "vertex",
	"willow", "wren", "zephyr",
}
