package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// thing is a model used only in tests.
type thing struct {
	Name string
	Tags []string
}

var _ Model = (*thing)(nil)

type thingPB struct {
	Name string   `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Tags []string `protobuf:"bytes,2,rep,name=tags,proto3" json:"tags,omitempty"`
}

func (m *thingPB) Reset()         { *m = thingPB{} }
func (m *thingPB) String() string { return proto.CompactTextString(m) }
func (*thingPB) ProtoMessage()    {}

func (t *thing) Marshal() ([]byte, error) {
	return proto.Marshal(&thingPB{Name: t.Name, Tags: t.Tags})
}

func (t *thing) Unmarshal(bz []byte) error {
	var pb thingPB
	if err := proto.Unmarshal(bz, &pb); err != nil {
		return err
	}
	t.Name = pb.Name
	t.Tags = pb.Tags
	return nil
}

func (t *thing) Validate() error {
	if t.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	return nil
}

func (t *thing) Copy() Model {
	return &thing{
		Name: t.Name,
		Tags: append([]string(nil), t.Tags...),
	}
}

func thingByName(obj Object) ([]byte, error) {
	t, ok := obj.Value().(*thing)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return []byte(t.Name), nil
}

func thingByTag(obj Object) ([][]byte, error) {
	t, ok := obj.Value().(*thing)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	keys := make([][]byte, len(t.Tags))
	for i, tag := range t.Tags {
		keys[i] = []byte(tag)
	}
	return keys, nil
}
