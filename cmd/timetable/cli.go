package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"smart-classroom/backend/internal/client"
)

var errQuit = errors.New("quit")

type commandLine struct {
	session *client.Session
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Commands:")
	fmt.Fprintln(cli.out, "  classes                                          - 列出班级")
	fmt.Fprintln(cli.out, "  select <class_id>                                - 切换班级")
	fmt.Fprintln(cli.out, "  generate                                         - 重新生成全部课表")
	fmt.Fprintln(cli.out, "  clear                                            - 清空全部课表")
	fmt.Fprintln(cli.out, "  override <day> <slot> <subject> <teacher> <room> - 覆盖单元格（ID）")
	fmt.Fprintln(cli.out, "  refresh                                          - 重新加载当前班级")
	fmt.Fprintln(cli.out, "  roster                                           - 教师/科目/教室")
	fmt.Fprintln(cli.out, "  quit")
}

// run 执行一行命令；返回的错误由调用方打印，errQuit 表示退出
func (cli *commandLine) run(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "help", "?":
		cli.printUsage()
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "classes":
		cli.printClasses()
		return nil
	case "roster":
		cli.printRoster()
		return nil
	case "grid":
		cli.render()
		return nil

	case "select":
		ids, err := parseIDs(args[1:], 1)
		if err != nil {
			return err
		}
		if err := cli.session.SelectClass(ctx, ids[0]); err != nil && !errors.Is(err, client.ErrSuperseded) {
			return err
		}
		cli.render()
		return nil

	case "refresh":
		err := cli.session.Refresh(ctx)
		cli.render()
		return err

	case "generate":
		stats, err := cli.session.Generate(ctx)
		if err != nil {
			var sle *client.ScheduleLoadError
			if !errors.As(err, &sle) {
				return err
			}
			cli.render()
			return err
		}
		cli.render()
		fmt.Fprintf(cli.out, "Placed %d of %d required periods.\n", stats.Placed, stats.Needed)
		return nil

	case "clear":
		err := cli.session.Clear(ctx)
		cli.render()
		return err

	case "override":
		return cli.override(ctx, args[1:])
	}

	cli.printUsage()
	return fmt.Errorf("未知命令 %q", args[0])
}

func (cli *commandLine) override(ctx context.Context, args []string) error {
	if len(args) != 5 {
		return errors.New("用法: override <day> <slot> <subject> <teacher> <room>")
	}
	day, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("非法的 day %q", args[0])
	}
	slot, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("非法的 slot %q", args[1])
	}
	ids, err := parseIDs(args[2:], 3)
	if err != nil {
		return err
	}

	w, err := cli.session.BeginOverride(day, slot)
	if err != nil {
		return err
	}

	err = w.Submit(ctx, client.OverrideSelection{SubjectID: ids[0], TeacherID: ids[1], RoomID: ids[2]})
	if err != nil {
		var rejected *client.OverrideRejected
		if errors.As(err, &rejected) {
			// 流程保持打开，用户可直接重新输入 override 命令
			return fmt.Errorf("无法覆盖: %s", rejected.Reason)
		}
		return err
	}

	cli.render()
	return nil
}

// parseIDs 解析恰好 n 个 ID；空值或 0 视为未选择
func parseIDs(args []string, n int) ([]int64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("需要 %d 个参数，实际 %d 个", n, len(args))
	}
	out := make([]int64, n)
	for i, a := range args {
		if a == "-" {
			continue
		}
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("非法的 ID %q", a)
		}
		out[i] = id
	}
	return out, nil
}
