package gameconfig

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	FileResources = "resources"
	FileAges      = "ages"
	FileBuildings = "buildings"
	FileUnits     = "units"
	FileResearch  = "research"
	FileItems     = "items"
	FileEvents    = "events"
)

// 目录文件：前四个必须存在，其余可缺省。
var catalogFiles = []struct {
	name     string
	required bool
}{
	{FileResources, true},
	{FileAges, true},
	{FileBuildings, true},
	{FileUnits, true},
	{FileResearch, false},
	{FileItems, false},
	{FileEvents, false},
}

var extensions = []string{".json", ".yaml", ".yml"}

// catalogFile 与游戏配置表的通用外壳一致：{"title": ..., "list": [...]}。
type catalogFile[T any] struct {
	Title string `json:"title"`
	List  []T    `json:"list"`
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compiledSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		out := make(map[string]*jsonschema.Schema, len(catalogFiles))
		for _, f := range catalogFiles {
			path := "schemas/" + f.name + ".schema.json"
			raw, err := schemaFS.ReadFile(path)
			if err != nil {
				schemasErr = err
				return
			}
			url := "mem:///" + path
			if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", f.name, err)
				return
			}
			s, err := compiler.Compile(url)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", f.name, err)
				return
			}
			out[f.name] = s
		}
		schemas = out
	})
	return schemas, schemasErr
}

// Load 从目录读取全部目录文件：支持 json/yaml，先过 JSON Schema，再建索引。
func Load(dir string) (*Catalogs, error) {
	ss, err := compiledSchemas()
	if err != nil {
		return nil, err
	}

	var set Set
	for _, f := range catalogFiles {
		raw, path, err := readCatalogFile(dir, f.name)
		if errors.Is(err, fs.ErrNotExist) {
			if f.required {
				return nil, fmt.Errorf("catalog %s: file not found in %s", f.name, dir)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := validate(ss[f.name], raw); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		if err := decodeInto(&set, f.name, raw); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return New(set)
}

// MustLoad 目录数据损坏是编程错误，直接 panic。
func MustLoad(dir string) *Catalogs {
	c, err := Load(dir)
	if err != nil {
		panic(fmt.Errorf("load catalogs failed: %w", err))
	}
	return c
}

// DefaultDir 是随代码发布的默认目录数据所在位置。
func DefaultDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("load catalogs failed: runtime.Caller(0) error")
	}
	return filepath.Join(filepath.Dir(file), "data")
}

// LoadDefault 加载默认目录数据。
func LoadDefault() *Catalogs {
	return MustLoad(DefaultDir())
}

// readCatalogFile 按扩展名顺序查找文件，yaml 统一转成 json 字节。
func readCatalogFile(dir, name string) ([]byte, string, error) {
	for _, ext := range extensions {
		path := filepath.Join(dir, name+ext)
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("read %s: %w", path, err)
		}
		if ext == ".json" {
			return raw, path, nil
		}
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, path, fmt.Errorf("parse yaml %s: %w", path, err)
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return nil, path, fmt.Errorf("convert yaml %s: %w", path, err)
		}
		return js, path, nil
	}
	return nil, "", fs.ErrNotExist
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return s.Validate(v)
}

func decodeInto(set *Set, name string, raw []byte) error {
	switch name {
	case FileResources:
		return decodeList(raw, &set.Resources)
	case FileAges:
		return decodeList(raw, &set.Ages)
	case FileBuildings:
		return decodeList(raw, &set.Buildings)
	case FileUnits:
		return decodeList(raw, &set.Units)
	case FileResearch:
		return decodeList(raw, &set.Research)
	case FileItems:
		return decodeList(raw, &set.Items)
	case FileEvents:
		return decodeList(raw, &set.Events)
	default:
		return fmt.Errorf("unknown catalog %q", name)
	}
}

func decodeList[T any](raw []byte, dst *[]T) error {
	var f catalogFile[T]
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}
	*dst = f.List
	return nil
}
