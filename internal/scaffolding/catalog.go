package scaffolding

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// VersionCatalog is a Gradle version catalog (gradle/libs.versions.toml).
type VersionCatalog struct {
	Versions  map[string]string         `toml:"versions"`
	Libraries map[string]CatalogLibrary `toml:"libraries"`
	Plugins   map[string]CatalogPlugin  `toml:"plugins"`
}

// CatalogLibrary is one [libraries] entry. Either Module or Group and Name
// identify the artifact.
type CatalogLibrary struct {
	Module  string     `toml:"module,omitempty"`
	Group   string     `toml:"group,omitempty"`
	Name    string     `toml:"name,omitempty"`
	Version VersionRef `toml:"version,inline"`
}

// CatalogPlugin is one [plugins] entry.
type CatalogPlugin struct {
	ID      string     `toml:"id"`
	Version VersionRef `toml:"version,inline"`
}

// VersionRef points at a [versions] key; `version = { ref = "x" }` is the
// same TOML as `version.ref = "x"`.
type VersionRef struct {
	Ref string `toml:"ref"`
}

func module(coords, ref string) CatalogLibrary {
	return CatalogLibrary{Module: coords, Version: VersionRef{Ref: ref}}
}

func grouped(group, name, ref string) CatalogLibrary {
	return CatalogLibrary{Group: group, Name: name, Version: VersionRef{Ref: ref}}
}

// DefaultCatalog returns the dependency versions a new Lynx Android host
// project starts from.
func DefaultCatalog() *VersionCatalog {
	return &VersionCatalog{
		Versions: map[string]string{
			"agp":              "8.9.1",
			"commonsCompress":  "1.26.1",
			"commonsLang3":     "3.14.0",
			"fresco":           "2.3.0",
			"kotlin":           "2.0.21",
			"coreKtx":          "1.10.1",
			"junit":            "4.13.2",
			"junitVersion":     "1.1.5",
			"espressoCore":     "3.5.1",
			"appcompat":        "1.6.1",
			"lynx":             "3.3.1",
			"material":         "1.10.0",
			"activity":         "1.8.0",
			"constraintlayout": "2.1.4",
			"okhttp":           "4.9.0",
			"primjs":           "2.12.0",
		},
		Libraries: map[string]CatalogLibrary{
			"androidx-core-ktx":         grouped("androidx.core", "core-ktx", "coreKtx"),
			"animated-base":             module("com.facebook.fresco:animated-base", "fresco"),
			"animated-gif":              module("com.facebook.fresco:animated-gif", "fresco"),
			"animated-webp":             module("com.facebook.fresco:animated-webp", "fresco"),
			"commons-compress":          module("org.apache.commons:commons-compress", "commonsCompress"),
			"commons-lang3":             module("org.apache.commons:commons-lang3", "commonsLang3"),
			"fresco":                    module("com.facebook.fresco:fresco", "fresco"),
			"junit":                     grouped("junit", "junit", "junit"),
			"androidx-junit":            grouped("androidx.test.ext", "junit", "junitVersion"),
			"androidx-espresso-core":    grouped("androidx.test.espresso", "espresso-core", "espressoCore"),
			"androidx-appcompat":        grouped("androidx.appcompat", "appcompat", "appcompat"),
			"lynx":                      module("org.lynxsdk.lynx:lynx", "lynx"),
			"lynx-jssdk":                module("org.lynxsdk.lynx:lynx-jssdk", "lynx"),
			"lynx-processor":            module("org.lynxsdk.lynx:lynx-processor", "lynx"),
			"lynx-service-http":         module("org.lynxsdk.lynx:lynx-service-http", "lynx"),
			"lynx-service-image":        module("org.lynxsdk.lynx:lynx-service-image", "lynx"),
			"lynx-service-log":          module("org.lynxsdk.lynx:lynx-service-log", "lynx"),
			"lynx-trace":                module("org.lynxsdk.lynx:lynx-trace", "lynx"),
			"material":                  grouped("com.google.android.material", "material", "material"),
			"androidx-activity":         grouped("androidx.activity", "activity", "activity"),
			"androidx-constraintlayout": grouped("androidx.constraintlayout", "constraintlayout", "constraintlayout"),
			"okhttp":                    module("com.squareup.okhttp3:okhttp", "okhttp"),
			"primjs":                    module("org.lynxsdk.lynx:primjs", "primjs"),
			"webpsupport":               module("com.facebook.fresco:webpsupport", "fresco"),
		},
		Plugins: map[string]CatalogPlugin{
			"android-application": {ID: "com.android.application", Version: VersionRef{Ref: "agp"}},
			"kotlin-android":      {ID: "org.jetbrains.kotlin.android", Version: VersionRef{Ref: "kotlin"}},
			"kotlin-kapt":         {ID: "org.jetbrains.kotlin.kapt", Version: VersionRef{Ref: "kotlin"}},
		},
	}
}

// Validate reports library and plugin entries whose version ref is undefined.
func (c *VersionCatalog) Validate() error {
	for name, lib := range c.Libraries {
		if _, ok := c.Versions[lib.Version.Ref]; !ok {
			return fmt.Errorf("library %s references unknown version %q", name, lib.Version.Ref)
		}
	}
	for name, p := range c.Plugins {
		if _, ok := c.Versions[p.Version.Ref]; !ok {
			return fmt.Errorf("plugin %s references unknown version %q", name, p.Version.Ref)
		}
	}
	return nil
}

// Marshal encodes the catalog as TOML.
func (c *VersionCatalog) Marshal() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding version catalog: %w", err)
	}
	return data, nil
}

// ParseCatalog decodes a libs.versions.toml document.
func ParseCatalog(data []byte) (*VersionCatalog, error) {
	var c VersionCatalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing version catalog: %w", err)
	}
	return &c, nil
}
