package basesvc

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// projectLike mô phỏng một model có khai báo relationship qua struct tag,
// giống cách Project khai báo quan hệ với versions.
type projectLike struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	_Relationships struct{}           `relationship:"collection:versions,field:projectId,message:Không thể xóa project vì có %d version trực thuộc."`
}

type multiRelLike struct {
	ID             primitive.ObjectID `bson:"_id"`
	_Relationships struct{}           `relationship:"collection:projects,field:workspaceId|collection:collaborators,field:workspaceId,cascade:true"`
}

type noRelLike struct {
	ID primitive.ObjectID `bson:"_id"`
}

func TestParseRelationshipTag(t *testing.T) {
	rels := ParseRelationshipTag(reflect.TypeOf(projectLike{}))
	if len(rels) != 1 {
		t.Fatalf("ParseRelationshipTag trả về %d quan hệ, muốn 1", len(rels))
	}
	rel := rels[0]
	if rel.CollectionName != "versions" || rel.FieldName != "projectId" {
		t.Errorf("Quan hệ parse sai: collection=%q field=%q", rel.CollectionName, rel.FieldName)
	}
	if rel.ErrorMessage != "Không thể xóa project vì có %d version trực thuộc." {
		t.Errorf("Message parse sai: %q", rel.ErrorMessage)
	}
	if rel.Cascade || rel.Optional {
		t.Errorf("Cascade/Optional phải là false khi không khai báo")
	}
}

func TestParseRelationshipTag_MultipleAndCascade(t *testing.T) {
	rels := ParseRelationshipTag(reflect.TypeOf(multiRelLike{}))
	if len(rels) != 2 {
		t.Fatalf("ParseRelationshipTag trả về %d quan hệ, muốn 2", len(rels))
	}
	if rels[0].CollectionName != "projects" {
		t.Errorf("Quan hệ đầu tiên phải là projects, nhận %q", rels[0].CollectionName)
	}
	if !rels[1].Cascade {
		t.Errorf("Quan hệ collaborators phải có cascade:true")
	}
	// Không khai báo message thì dùng message mặc định chứa tên collection
	if rels[0].ErrorMessage == "" {
		t.Errorf("Message mặc định không được rỗng")
	}
}

func TestParseRelationshipTag_NoTag(t *testing.T) {
	if rels := ParseRelationshipTag(reflect.TypeOf(noRelLike{})); len(rels) != 0 {
		t.Errorf("Model không có tag relationship phải trả về 0 quan hệ, nhận %d", len(rels))
	}
}

func TestToUpdateData(t *testing.T) {
	// *UpdateData đi qua nguyên vẹn
	in := &UpdateData{Set: map[string]interface{}{"name": "v2"}}
	out, err := ToUpdateData(in)
	if err != nil {
		t.Fatalf("ToUpdateData(*UpdateData) lỗi: %v", err)
	}
	if out != in {
		t.Errorf("ToUpdateData(*UpdateData) phải trả về cùng con trỏ")
	}

	// UpdateData theo giá trị được chuyển thành con trỏ
	out, err = ToUpdateData(UpdateData{Unset: map[string]interface{}{"note": ""}})
	if err != nil {
		t.Fatalf("ToUpdateData(UpdateData) lỗi: %v", err)
	}
	if _, ok := out.Unset["note"]; !ok {
		t.Errorf("Unset phải giữ nguyên field note")
	}

	// Struct thường được wrap trong $set theo bson tag
	type patch struct {
		Name string `bson:"name"`
	}
	out, err = ToUpdateData(patch{Name: "bản mới"})
	if err != nil {
		t.Fatalf("ToUpdateData(struct) lỗi: %v", err)
	}
	if got, ok := out.Set["name"].(string); !ok || got != "bản mới" {
		t.Errorf("Set[\"name\"] = %v, muốn \"bản mới\"", out.Set["name"])
	}
}
