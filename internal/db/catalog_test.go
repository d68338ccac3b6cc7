//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/Spok95/academic-records/internal/db"
	"github.com/Spok95/academic-records/internal/models"
	"github.com/Spok95/academic-records/internal/testutil/testdb"
)

func TestUsers_ManagementRoundtrip(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	store := db.New(h.DB)
	ctx := context.Background()

	id, err := store.InsertUser(ctx, models.User{
		Username: "jsmith", Password: "digest-1",
		FullName: "John Smith", Email: "j@uni.edu",
		Role: models.RoleStaff, Status: models.UserActive,
	})
	if err != nil {
		t.Fatal(err)
	}

	u, err := store.GetUserByID(ctx, id)
	if err != nil || u == nil {
		t.Fatalf("GetUserByID: %v %v", u, err)
	}
	if u.Password != "" {
		t.Error("карточка пользователя не должна содержать дайджест")
	}
	if missing, err := store.GetUserByID(ctx, 424242); err != nil || missing != nil {
		t.Errorf("несуществующий id: %v %v", missing, err)
	}

	exists, err := store.UsernameExists(ctx, "jsmith")
	if err != nil || !exists {
		t.Fatalf("UsernameExists(jsmith): %v %v", exists, err)
	}
	if exists, _ := store.UsernameExists(ctx, "ghost"); exists {
		t.Error("ghost не должен существовать")
	}

	u.FullName = "John Q. Smith"
	u.Status = models.UserInactive
	if ok, err := store.UpdateUser(ctx, *u); err != nil || !ok {
		t.Fatalf("UpdateUser: %v %v", ok, err)
	}
	// профиль обновился, дайджест остался прежним
	fresh, err := store.FindUserByUsername(ctx, "jsmith")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.FullName != "John Q. Smith" || fresh.Status != models.UserInactive {
		t.Errorf("профиль после UpdateUser: %+v", fresh)
	}
	if fresh.Password != "digest-1" {
		t.Error("UpdateUser не должен трогать пароль")
	}

	if _, err := store.InsertUser(ctx, models.User{
		Username: "abrown", Password: "digest-2",
		FullName: "Alice Brown", Email: "a@uni.edu",
		Role: models.RoleUser, Status: models.UserActive,
	}); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// сортировка по username, дайджесты очищены
	if len(all) != 2 || all[0].Username != "abrown" || all[1].Username != "jsmith" {
		t.Fatalf("ListUsers: %+v", all)
	}
	for _, u := range all {
		if u.Password != "" {
			t.Errorf("дайджест в списке: %+v", u)
		}
	}

	found, err := store.SearchUsers(ctx, "smith")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Username != "jsmith" {
		t.Errorf("SearchUsers(smith): %+v", found)
	}

	if ok, err := store.DeleteUser(ctx, id); err != nil || !ok {
		t.Fatalf("DeleteUser: %v %v", ok, err)
	}
	if gone, _ := store.GetUserByID(ctx, id); gone != nil {
		t.Errorf("после удаления: %+v", gone)
	}
	if ok, _ := store.DeleteUser(ctx, id); ok {
		t.Error("повторное удаление должно вернуть false")
	}
}

func TestStudents_Roundtrip(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	store := db.New(h.DB)
	ctx := context.Background()

	id := mustSeedStudent(t, store, "S-500")

	st, err := store.GetStudentByID(ctx, id)
	if err != nil || st == nil {
		t.Fatalf("GetStudentByID: %v %v", st, err)
	}
	if st.StudentNumber != "S-500" {
		t.Errorf("карточка студента: %+v", st)
	}

	st.LastName = "Сидоров"
	st.Status = models.StudentGraduated
	if ok, err := store.UpdateStudent(ctx, *st); err != nil || !ok {
		t.Fatalf("UpdateStudent: %v %v", ok, err)
	}
	fresh, err := store.GetStudentByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.LastName != "Сидоров" || fresh.Status != models.StudentGraduated {
		t.Errorf("после обновления: %+v", fresh)
	}

	found, err := store.SearchStudents(ctx, "сидор")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != id {
		t.Errorf("поиск по фамилии (ILIKE): %+v", found)
	}

	if ok, err := store.DeleteStudent(ctx, id); err != nil || !ok {
		t.Fatalf("DeleteStudent: %v %v", ok, err)
	}
	if gone, _ := store.GetStudentByID(ctx, id); gone != nil {
		t.Errorf("после удаления: %+v", gone)
	}
	if ok, _ := store.DeleteStudent(ctx, id); ok {
		t.Error("повторное удаление должно вернуть false")
	}
}

func TestCourses_Roundtrip(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	store := db.New(h.DB)
	ctx := context.Background()

	id := mustSeedCourse(t, store, "CS500", 25)

	c, err := store.GetCourseByID(ctx, id)
	if err != nil || c == nil {
		t.Fatalf("GetCourseByID: %v %v", c, err)
	}

	c.CourseName = "Введение в алгоритмы"
	c.Capacity = 40
	if ok, err := store.UpdateCourse(ctx, *c); err != nil || !ok {
		t.Fatalf("UpdateCourse: %v %v", ok, err)
	}
	fresh, err := store.GetCourseByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CourseName != "Введение в алгоритмы" || fresh.Capacity != 40 {
		t.Errorf("после обновления: %+v", fresh)
	}

	if ok, err := store.DeleteCourse(ctx, id); err != nil || !ok {
		t.Fatalf("DeleteCourse: %v %v", ok, err)
	}
	if gone, _ := store.GetCourseByID(ctx, id); gone != nil {
		t.Errorf("после удаления: %+v", gone)
	}
}

func TestLecturers_RoundtripAndReportJoin(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	store := db.New(h.DB)
	ctx := context.Background()

	dep := "CS"
	lid, err := store.InsertLecturer(ctx, models.Lecturer{
		FullName: "Анна Козлова", Email: "kozlova@uni.edu", Department: &dep,
	})
	if err != nil {
		t.Fatal(err)
	}

	l, err := store.GetLecturerByID(ctx, lid)
	if err != nil || l == nil || l.FullName != "Анна Козлова" {
		t.Fatalf("GetLecturerByID: %+v %v", l, err)
	}

	if _, err := store.InsertLecturer(ctx, models.Lecturer{
		FullName: "Борис Волков", Email: "volkov@uni.edu",
	}); err != nil {
		t.Fatal(err)
	}
	all, err := store.ListLecturers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// сортировка по имени
	if len(all) != 2 || all[0].FullName != "Анна Козлова" {
		t.Fatalf("ListLecturers: %+v", all)
	}

	// имя лектора доходит до отчётного представления
	if _, err := store.InsertCourse(ctx, models.Course{
		CourseCode: "CS510", CourseName: "Базы данных",
		Credits: 3, Semester: "2025-1", Capacity: 20, LecturerID: &lid,
	}); err != nil {
		t.Fatal(err)
	}
	rows, err := store.CourseEnrollmentCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].LecturerName == nil || *rows[0].LecturerName != "Анна Козлова" {
		t.Fatalf("lecturer_name в отчёте: %+v", rows)
	}

	if ok, err := store.DeleteLecturer(ctx, lid); err != nil || !ok {
		t.Fatalf("DeleteLecturer: %v %v", ok, err)
	}
	// ссылка курса на лектора сбрасывается (ON DELETE SET NULL)
	c, err := store.GetCourseByID(ctx, rows[0].CourseID)
	if err != nil || c == nil {
		t.Fatalf("курс после удаления лектора: %+v %v", c, err)
	}
	if c.LecturerID != nil {
		t.Errorf("lecturer_id должен обнулиться: %+v", c)
	}
}
