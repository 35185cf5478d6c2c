package config

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	yamlv3 "go.yaml.in/yaml/v3"
)

// ExampleYAML 将配置结构体序列化为带注释的 YAML。
//
// 注释取自字段的 desc tag，header 非空时作为文件头注释。
//
// 使用示例：
//
//	out, err := config.ExampleYAML(cfg, "menv 配置")
//	os.Stdout.Write(out)
func ExampleYAML[T any](cfg T, header string) ([]byte, error) {
	node := structToNode(reflect.ValueOf(cfg))
	node.HeadComment = header

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// structToNode 将结构体转换为带注释的 mapping 节点。
func structToNode(val reflect.Value) *yamlv3.Node {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null"}
		}
		val = val.Elem()
	}
	typ := val.Type()

	node := &yamlv3.Node{Kind: yamlv3.MappingNode}
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}
		comment := field.Tag.Get("desc")

		keyNode := &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: key}
		var valNode *yamlv3.Node

		switch {
		case isNestedStruct(field.Type):
			valNode = structToNode(val.Field(i))
			keyNode.HeadComment = "\n" + comment // 复杂类型注释放在 key 上方
		case field.Type.Kind() == reflect.Slice:
			valNode = valueToNode(val.Field(i))
			keyNode.HeadComment = comment
		default:
			valNode = valueToNode(val.Field(i))
			if strings.Contains(comment, "\n") {
				keyNode.HeadComment = comment
			} else {
				valNode.LineComment = comment
			}
		}

		node.Content = append(node.Content, keyNode, valNode)
	}

	return node
}

// valueToNode 将标量或切片转换为节点。
func valueToNode(val reflect.Value) *yamlv3.Node {
	if d, ok := val.Interface().(time.Duration); ok {
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: d.String()}
	}

	switch val.Kind() {
	case reflect.String:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: val.String(), Style: yamlv3.DoubleQuotedStyle}
	case reflect.Bool:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: strconv.FormatBool(val.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: strconv.FormatInt(val.Int(), 10)}
	case reflect.Slice:
		node := &yamlv3.Node{Kind: yamlv3.SequenceNode}
		if val.Len() == 0 {
			node.Style = yamlv3.FlowStyle // []
		}
		for j := range val.Len() {
			elem := valueToNode(val.Index(j))
			elem.Style = 0
			node.Content = append(node.Content, elem)
		}
		return node
	default:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: fmt.Sprintf("%v", val.Interface())}
	}
}
