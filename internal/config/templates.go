package config

import (
	"fmt"
	"os"
)

func Template() string {
	return stageTableTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(stageTableTemplate), 0o600)
}

const stageTableTemplate = `data_dir = "data/Stage"
cors_origins = ["http://localhost:3000"]

[[stages]]
name = "cave01"
map = "cave01.pxm"
attrib = "cave01.pxa"
entities = "cave01.pxe"

[[stages]]
name = "cave02"
`
